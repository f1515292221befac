package oauth

import (
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/jack-davidson/gusto-go/common"
)

// Endpoint returns the provider's OAuth2 endpoint rooted at cfg.BaseURL.
func Endpoint(cfg common.Config) oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:  cfg.BaseURL + "/oauth/authorize",
		TokenURL: cfg.BaseURL + tokenPath,
	}
}

// NewState returns a fresh value for the consent URL's state parameter.
func NewState() string {
	return uuid.NewString()
}

// AuthorizeURL builds the browser consent URL for the redirect leg of the
// flow, with a generated state value. The caller sends the user there
// out-of-band and receives the authorization code on the redirect URI.
func AuthorizeURL(cfg common.Config) string {
	return AuthorizeURLWithState(cfg, NewState())
}

// AuthorizeURLWithState is AuthorizeURL with a caller-supplied state value.
func AuthorizeURLWithState(cfg common.Config, state string) string {
	oc := oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURI,
		Endpoint:    Endpoint(cfg),
	}
	return oc.AuthCodeURL(state)
}
