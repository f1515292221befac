package gusto

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/jack-davidson/gusto-go/common"
	"github.com/jack-davidson/gusto-go/common/model"
)

// Client defines lower-level HTTP operations against the Gusto API:
// GETs with bearer auth, JSON decoding, error surfacing.
type Client interface {
	GetJSON(ctx context.Context, endpoint string, entity interface{}, token *oauth2.Token, params map[string]string) error
	GetBytes(ctx context.Context, endpoint string, token *oauth2.Token, params map[string]string) ([]byte, error)
	DoRequest(ctx context.Context, method, urlStr string, token *oauth2.Token, body io.Reader, expectedStatus ...int) ([]byte, error)
}

type gustoClient struct {
	baseURL    string
	httpClient common.HttpClient
	logger     *slog.Logger
}

// NewClient creates a Client rooted at baseURL. A nil logger falls back to
// slog.Default().
func NewClient(baseURL string, httpClient common.HttpClient, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &gustoClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ---------------------------------------------------
// Implementation of Client interface
// ---------------------------------------------------

// GetJSON retrieves JSON from an endpoint and unmarshals into entity.
func (c *gustoClient) GetJSON(ctx context.Context, endpoint string, entity interface{}, token *oauth2.Token, params map[string]string) error {
	data, err := c.GetBytes(ctx, endpoint, token, params)
	if err != nil {
		return err
	}
	return model.JSONUnmarshal(data, entity)
}

// GetBytes retrieves raw bytes from an endpoint. Each call is exactly one
// round trip: responses are never cached, so the body comes back as the
// server sent it.
func (c *gustoClient) GetBytes(ctx context.Context, endpoint string, token *oauth2.Token, params map[string]string) ([]byte, error) {
	urlStr, err := c.buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}
	return c.DoRequest(ctx, http.MethodGet, urlStr, token, nil)
}

// DoRequest performs the HTTP request and surfaces unexpected statuses as
// *common.HTTPError.
func (c *gustoClient) DoRequest(ctx context.Context, method, urlStr string, token *oauth2.Token, body io.Reader, expectedStatus ...int) ([]byte, error) {
	if len(expectedStatus) == 0 {
		expectedStatus = []int{http.StatusOK}
	}

	data, status, err := c.executeRequest(ctx, method, urlStr, token, body)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "gusto api request", "method", method, "url", urlStr, "status", status)

	if !statusMatches(status, expectedStatus) {
		return nil, &common.HTTPError{
			StatusCode: status,
			Body:       data,
		}
	}
	return data, nil
}

// executeRequest actually does the low-level HTTP
func (c *gustoClient) executeRequest(ctx context.Context, method, urlStr string, token *oauth2.Token, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if token != nil && token.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %v", readErr)
	}
	return data, resp.StatusCode, nil
}

// buildURL merges baseURL + endpoint + params
func (c *gustoClient) buildURL(endpoint string, params map[string]string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	path, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}

	fullURL := base.ResolveReference(path)
	if len(params) > 0 {
		q := fullURL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		fullURL.RawQuery = q.Encode()
	}
	return fullURL.String(), nil
}

func statusMatches(statusCode int, expected []int) bool {
	for _, s := range expected {
		if statusCode == s {
			return true
		}
	}
	return false
}
