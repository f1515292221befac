package common

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HttpClient is an interface for HTTP operations.
// This allows mocking or custom transport layers in testing.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
	Get(url string) (*http.Response, error)
	Post(url, contentType string, body io.Reader) (*http.Response, error)
	PostForm(url string, data url.Values) (*http.Response, error)
	Head(url string) (*http.Response, error)
	CloseIdleConnections()
}

// HTTPError is a custom error that captures unexpected status codes and response bodies.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, string(e.Body))
}

// userAgentRoundTripper is a custom RoundTripper that adds a User-Agent header.
type userAgentRoundTripper struct {
	Wrapped   http.RoundTripper
	UserAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone request to avoid mutating the original
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", rt.UserAgent)
	return rt.Wrapped.RoundTrip(clone)
}

// Implementation of HttpClient that wraps a standard *http.Client.
// Every call is exactly one blocking round trip; there is no retry layer,
// so transport failures surface directly to the caller.
type httpClient struct {
	client *http.Client
}

// NewGustoHttpClient returns a new HttpClient with a default 10s timeout, plus a custom User-Agent.
func NewGustoHttpClient(userAgent string, base *http.Client) HttpClient {
	if base.Transport == nil {
		base.Transport = http.DefaultTransport
	}
	base.Transport = &userAgentRoundTripper{
		Wrapped:   base.Transport,
		UserAgent: userAgent,
	}
	base.Timeout = 10 * time.Second

	return &httpClient{client: base}
}

// Implementation of the interface:

func (h *httpClient) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

func (h *httpClient) Get(url string) (*http.Response, error) {
	return h.client.Get(url)
}

func (h *httpClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	return h.client.Post(url, contentType, body)
}

func (h *httpClient) PostForm(url string, data url.Values) (*http.Response, error) {
	return h.client.PostForm(url, data)
}

func (h *httpClient) Head(url string) (*http.Response, error) {
	return h.client.Head(url)
}

func (h *httpClient) CloseIdleConnections() {
	h.client.CloseIdleConnections()
}
