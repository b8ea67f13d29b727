package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"admitad/pkg/apierror"
)

const (
	// DefaultBaseURL is the identity endpoint of the production API.
	DefaultBaseURL = "https://api.admitad.com"

	// DefaultHTTPTimeout is the default timeout for token requests.
	DefaultHTTPTimeout = 30 * time.Second

	tokenPath     = "/token/"
	authorizePath = "/authorize/"
)

// Grant types sent in the grant_type form field.
const (
	GrantTypeClientCredentials = "client_credentials"
	GrantTypeRefreshToken      = "refresh_token"
	GrantTypeAuthorizationCode = "authorization_code"
)

// Client performs token endpoint requests. It keeps no token state.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	now        func() time.Time
}

// ClientOption configures the OAuth client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBaseURL overrides the identity endpoint base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithClock overrides the time source used to compute token expiry.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new OAuth client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		logger:     slog.Default(),
		baseURL:    DefaultBaseURL,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// TokenURL returns the token endpoint URL.
func (c *Client) TokenURL() string {
	return c.baseURL + tokenPath
}

// AuthorizeURL returns the authorization endpoint URL.
func (c *Client) AuthorizeURL() string {
	return c.baseURL + authorizePath
}

// ClientCredentials obtains a token with the client credentials grant.
// The client is authenticated with HTTP Basic auth.
func (c *Client) ClientCredentials(ctx context.Context, clientID, clientSecret, scope string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type": {GrantTypeClientCredentials},
		"scope":      {scope},
	}

	return c.doTokenRequest(ctx, data, &ClientIdentity{ClientID: clientID, ClientSecret: clientSecret},
		"Failed to get access token")
}

// Refresh obtains a new token pair using a refresh token. Client credentials
// are sent in the form body, not as Basic auth.
func (c *Client) Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":    {GrantTypeRefreshToken},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"refresh_token": {refreshToken},
	}

	return c.doTokenRequest(ctx, data, nil, "Failed to refresh access token")
}

// ExchangeCode exchanges an authorization code for tokens.
// The client is authenticated with HTTP Basic auth.
func (c *Client) ExchangeCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":   {GrantTypeAuthorizationCode},
		"code":         {code},
		"client_id":    {clientID},
		"redirect_uri": {redirectURI},
	}

	return c.doTokenRequest(ctx, data, &ClientIdentity{ClientID: clientID, ClientSecret: clientSecret},
		"Failed to exchange code for token")
}

// BuildAuthorizationURL constructs the URL the user is sent to for the
// authorization code flow. state is omitted when empty. No request is made.
func (c *Client) BuildAuthorizationURL(clientID, redirectURI, scope, state string) string {
	query := url.Values{}
	query.Set("client_id", clientID)
	query.Set("redirect_uri", redirectURI)
	query.Set("scope", scope)
	query.Set("response_type", "code")

	if state != "" {
		query.Set("state", state)
	}

	return c.AuthorizeURL() + "?" + query.Encode()
}

// doTokenRequest performs a token endpoint request.
//
// Transport failures are returned unchanged. Non-2xx responses become an
// *apierror.AuthError built from the error body, with fallback as the
// description when the body carries none.
func (c *Client) doTokenRequest(ctx context.Context, data url.Values, basic *ClientIdentity, fallback string) (*TokenResponse, error) {
	grantType := data.Get("grant_type")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL(), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if basic != nil {
		req.Header.Set("Authorization", "Basic "+basicCredentials(basic.ClientID, basic.ClientSecret))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		eb := apierror.ParseErrorBody(body)
		c.logger.Debug("Token request failed",
			"grant_type", grantType,
			"status", resp.StatusCode,
			"error", string(eb.Error))
		return nil, &apierror.AuthError{
			Description: eb.DescriptionOr(fallback),
			Code:        string(eb.Error),
		}
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, &apierror.AuthError{Description: "Malformed token response", Cause: err}
	}

	token.SetExpiresAtFromExpiresIn(c.now())

	c.logger.Debug("Token request succeeded",
		"grant_type", grantType,
		"expires_in", token.ExpiresIn,
		"has_refresh_token", token.RefreshToken != "",
		"access_token", NewRedactedToken(token.AccessToken))

	return &token, nil
}

// basicCredentials returns base64(clientID:clientSecret) for a Basic
// Authorization header. No URL escaping is applied to either part.
func basicCredentials(clientID, clientSecret string) string {
	return base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
}
