package oauth

import (
	"context"
	"fmt"
)

// Grant is one of ClientCredentialsGrant, RefreshGrant or
// AuthorizationCodeGrant. The set is closed.
type Grant interface {
	grantType() string
}

// ClientCredentialsGrant requests a token for the application itself.
type ClientCredentialsGrant struct {
	Scope string
}

// RefreshGrant exchanges a refresh token for a new token pair.
type RefreshGrant struct {
	RefreshToken string
}

// AuthorizationCodeGrant exchanges the code returned to the redirect URI.
type AuthorizationCodeGrant struct {
	Code        string
	RedirectURI string
}

func (ClientCredentialsGrant) grantType() string { return GrantTypeClientCredentials }
func (RefreshGrant) grantType() string           { return GrantTypeRefreshToken }
func (AuthorizationCodeGrant) grantType() string { return GrantTypeAuthorizationCode }

// Exchange sends the token request matching grant.
func (c *Client) Exchange(ctx context.Context, id ClientIdentity, grant Grant) (*TokenResponse, error) {
	if grant == nil {
		return nil, fmt.Errorf("nil grant")
	}

	switch g := grant.(type) {
	case ClientCredentialsGrant:
		return c.ClientCredentials(ctx, id.ClientID, id.ClientSecret, g.Scope)
	case *ClientCredentialsGrant:
		if g == nil {
			return nil, fmt.Errorf("nil grant %T", grant)
		}
		return c.ClientCredentials(ctx, id.ClientID, id.ClientSecret, g.Scope)
	case RefreshGrant:
		return c.Refresh(ctx, id.ClientID, id.ClientSecret, g.RefreshToken)
	case *RefreshGrant:
		if g == nil {
			return nil, fmt.Errorf("nil grant %T", grant)
		}
		return c.Refresh(ctx, id.ClientID, id.ClientSecret, g.RefreshToken)
	case AuthorizationCodeGrant:
		return c.ExchangeCode(ctx, id.ClientID, id.ClientSecret, g.Code, g.RedirectURI)
	case *AuthorizationCodeGrant:
		if g == nil {
			return nil, fmt.Errorf("nil grant %T", grant)
		}
		return c.ExchangeCode(ctx, id.ClientID, id.ClientSecret, g.Code, g.RedirectURI)
	default:
		return nil, fmt.Errorf("unsupported grant type %T", grant)
	}
}
