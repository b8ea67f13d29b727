package oauth

import (
	"math"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"admitad/pkg/credential"
)

// DefaultExpiryMargin is the default margin when checking token expiry.
// This accounts for clock skew and network latency.
const DefaultExpiryMargin = 30 * time.Second

// ClientIdentity identifies the application to the token endpoint.
type ClientIdentity struct {
	ClientID     string
	ClientSecret string
}

// TokenResponse is the payload returned by the token endpoint.
type TokenResponse struct {
	// AccessToken is the bearer token used for authorization.
	AccessToken string `json:"access_token"`

	// TokenType is typically "bearer".
	TokenType string `json:"token_type,omitempty"`

	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int `json:"expires_in,omitempty"`

	// Scope is the granted scope(s), space-separated.
	Scope string `json:"scope,omitempty"`

	// Profile fields of the account the token was issued for.
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Language  string `json:"language,omitempty"`
	Group     string `json:"group,omitempty"`

	// ExpiresAt is calculated from ExpiresIn when the response is received.
	ExpiresAt time.Time `json:"-"`
}

// SetExpiresAtFromExpiresIn calculates and sets ExpiresAt from ExpiresIn.
func (t *TokenResponse) SetExpiresAtFromExpiresIn(now time.Time) {
	if t.ExpiresIn > 0 && t.ExpiresAt.IsZero() {
		t.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
}

// IsExpiredWithMargin checks if the token has expired or will expire within the margin.
func (t *TokenResponse) IsExpiredWithMargin(now time.Time, margin time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return now.Add(margin).After(t.ExpiresAt)
}

// Scopes returns the granted scope as a slice of individual scopes.
func (t *TokenResponse) Scopes() []string {
	if t.Scope == "" {
		return nil
	}
	return strings.Fields(t.Scope)
}

// ToCredential drops the profile fields and returns the token pair.
func (t *TokenResponse) ToCredential() credential.Credential {
	expiresIn := t.ExpiresIn
	switch {
	case expiresIn < 0:
		expiresIn = 0
	case int64(expiresIn) > math.MaxUint32:
		expiresIn = math.MaxUint32
	}
	return credential.Credential{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    uint32(expiresIn),
	}
}

// OAuth2Token converts the response to an oauth2.Token for use with
// golang.org/x/oauth2 based HTTP clients.
func (t *TokenResponse) OAuth2Token() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.ExpiresAt,
		ExpiresIn:    int64(t.ExpiresIn),
	}
	if t.Scope != "" {
		token = token.WithExtra(map[string]interface{}{
			"scope": t.Scope,
		})
	}
	return token
}

// AuthChallenge holds the parameters of a Bearer WWW-Authenticate header.
type AuthChallenge struct {
	// Scheme is the authentication scheme, normally "Bearer".
	Scheme string

	// Realm is the protection realm.
	Realm string

	// Scope is the space-separated list of required scopes.
	Scope string

	// Error is the error code from the header (if any).
	Error string

	// ErrorDescription is a human-readable error description (if any).
	ErrorDescription string
}
