package authenticator

import (
	"context"
)

// Token represents an authentication token pair returned by an SSO
// provider exchange.
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       int64
}

// Claims represents user claims from the ID token
type Claims map[string]interface{}

// Email returns the email claim, or empty when absent.
func (c Claims) Email() string {
	if email, ok := c["email"].(string); ok {
		return email
	}
	return ""
}

// Provider interface abstracts SSO provider operations
type Provider interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	GetClaims(ctx context.Context, token *Token) (Claims, error)
}
