package common

import (
	"context"

	"golang.org/x/oauth2"
)

// AuthClient defines the token exchanges the provider's /oauth/token
// endpoint supports. Both legs rotate the provider-side refresh token,
// so implementations are expected to keep their held token current.
type AuthClient interface {
	// ExchangeCode trades a single-use authorization code, obtained from
	// the browser consent redirect, for an initial token pair.
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)

	// RefreshToken attempts to refresh using the given refresh token string.
	// Returns a new *oauth2.Token on success, or an error if refresh fails.
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}
