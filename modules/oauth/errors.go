package oauth

import "fmt"

// ExchangeError is returned when the token endpoint answers with an OAuth
// error body instead of a token pair: invalid or expired codes, bad client
// credentials, invalid grants. It is never retried here; callers decide
// whether to restart the flow.
type ExchangeError struct {
	Code        string
	Description string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("oauth exchange failed: %s: %s", e.Code, e.Description)
}
