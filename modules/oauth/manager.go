package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/jack-davidson/gusto-go/common"
	"github.com/jack-davidson/gusto-go/common/model"
)

// GrantType selects which leg of the OAuth flow an exchange performs.
type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantRefreshToken      GrantType = "refresh_token"
)

const tokenPath = "/oauth/token"

// Manager owns the process's single refresh token and performs exchanges
// against the provider's token endpoint. Every successful exchange, the
// refresh leg included, issues a new refresh token and invalidates the
// previous one provider-side, so the held value is replaced wholesale on
// success and left untouched on any failure.
//
// The mutex is held across the whole read-exchange-write sequence, so
// concurrent callers cannot interleave a Get with another caller's rotation.
type Manager struct {
	cfg        common.Config
	httpClient common.HttpClient

	mu           sync.Mutex
	refreshToken string
}

// NewManager constructs a Manager. initialRefreshToken may be empty when
// the authorization-code leg has not run yet.
func NewManager(cfg common.Config, httpClient common.HttpClient, initialRefreshToken string) *Manager {
	return &Manager{
		cfg:          cfg,
		httpClient:   httpClient,
		refreshToken: initialRefreshToken,
	}
}

// Put replaces the held refresh token with token. No validation.
func (m *Manager) Put(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshToken = token
}

// Get returns the currently held refresh token, or "" if none is held.
func (m *Manager) Get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshToken
}

// Exchange posts a token request for the given grant to /oauth/token.
// For GrantAuthorizationCode, token is the single-use code from the consent
// redirect; for GrantRefreshToken it is a refresh token. On success the held
// refresh token is rotated to the response's refresh_token.
func (m *Manager) Exchange(ctx context.Context, token string, grant GrantType) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchangeLocked(ctx, token, grant)
}

// Authorize trades the authorization code from the consent redirect for an
// initial token pair.
func (m *Manager) Authorize(ctx context.Context, code string) (*oauth2.Token, error) {
	return m.Exchange(ctx, code, GrantAuthorizationCode)
}

// AccessToken requests a fresh access token using the held refresh token.
// An empty held token is sent as-is; the provider rejects it with an OAuth
// error, surfaced as *ExchangeError.
func (m *Manager) AccessToken(ctx context.Context) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchangeLocked(ctx, m.refreshToken, GrantRefreshToken)
}

// ExchangeCode implements common.AuthClient.
func (m *Manager) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return m.Authorize(ctx, code)
}

// RefreshToken implements common.AuthClient.
func (m *Manager) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return m.Exchange(ctx, refreshToken, GrantRefreshToken)
}

// String returns the held refresh token.
func (m *Manager) String() string {
	return m.Get()
}

var _ common.AuthClient = (*Manager)(nil)

// exchangeLocked does the actual round trip. m.mu must be held; the held
// refresh token is only mutated after the response parsed error-free.
func (m *Manager) exchangeLocked(ctx context.Context, token string, grant GrantType) (*oauth2.Token, error) {
	body := map[string]string{
		"client_id":     m.cfg.ClientID,
		"client_secret": m.cfg.ClientSecret,
		"redirect_uri":  m.cfg.RedirectURI,
		"grant_type":    string(grant),
	}
	if grant == GrantRefreshToken {
		body["refresh_token"] = token
	} else {
		body["code"] = token
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+tokenPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %v", err)
	}

	// OAuth failures arrive as an error body, not only as a status code.
	var oauthErr model.TokenError
	if err := model.JSONUnmarshal(data, &oauthErr); err == nil && oauthErr.ErrorCode != "" {
		return nil, &ExchangeError{Code: oauthErr.ErrorCode, Description: oauthErr.ErrorDescription}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &common.HTTPError{StatusCode: resp.StatusCode, Body: data}
	}

	var tr model.TokenResponse
	if err := model.JSONUnmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	// An incomplete pair must not rotate the held token: overwriting it
	// with "" would destroy the only credential that can recover the session.
	if tr.AccessToken == "" || tr.RefreshToken == "" {
		return nil, fmt.Errorf("token response missing access_token or refresh_token")
	}

	m.refreshToken = tr.RefreshToken

	tok := &oauth2.Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
	}
	if tr.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return tok, nil
}
