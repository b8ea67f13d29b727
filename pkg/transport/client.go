package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"admitad/pkg/apierror"
	"admitad/pkg/credential"
	"admitad/pkg/oauth"
)

// ErrClosed is returned by calls made after Close. It is reported together
// with context.Canceled.
var ErrClosed = errors.New("transport: client closed")

// Client issues authenticated JSON requests against the API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *credential.Store
	refresher  *refresher
	tokens     *oauth.Client
	logger     *slog.Logger

	scope  context.Context
	cancel context.CancelFunc
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	base := cfg.HTTPClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	tokens := oauth.NewClient(
		oauth.WithHTTPClient(&http.Client{Transport: base, Timeout: cfg.Timeout}),
		oauth.WithBaseURL(cfg.IdentityURL),
		oauth.WithLogger(cfg.Logger),
	)

	store := credential.NewStore(credential.Credential{
		AccessToken:  cfg.AccessToken,
		RefreshToken: cfg.RefreshToken,
	})

	scope, cancel := context.WithCancel(context.Background())
	m := newMetrics(cfg.MetricsRegisterer)

	r := &refresher{
		tokens:    tokens,
		identity:  cfg.identity(),
		store:     store,
		onRefresh: cfg.OnTokenRefresh,
		logger:    cfg.Logger,
		metrics:   m,
		scope:     scope,
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
	}

	rt := &authTransport{
		base:      base,
		store:     store,
		refresher: r,
		language:  cfg.Language,
		limiter:   limiter,
		metrics:   m,
		logger:    cfg.Logger,
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Transport: rt, Timeout: cfg.Timeout},
		store:      store,
		refresher:  r,
		tokens:     tokens,
		logger:     cfg.Logger,
		scope:      scope,
		cancel:     cancel,
	}, nil
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request. A url.Values body is form-encoded, anything
// else is sent as JSON.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, query, body, out)
}

// Put issues a PUT request. Body encoding follows Post.
func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, query, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodDelete, path, query, nil, out)
}

// Do issues one logical request. out may be nil to discard the response.
//
// When the credential was refreshed on this call's behalf but the refresh
// callback failed, out is still populated and the returned *apierror.AuthError
// carries the callback failure in CallbackErr. apierror.IsCallbackOnly tells
// that case apart from a failed call.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.scope.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	st := &requestState{}
	ctx = withRequestState(ctx, st)

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.finish(st, unwrapAuthError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.finish(st, err)
	}

	if err := decodeResponse(resp, data, out); err != nil {
		c.logger.Debug("API request failed", "method", method, "path", path, "status", resp.StatusCode, "error", err)
		return c.finish(st, err)
	}
	return c.finish(st, nil)
}

// Refresh forces a refresh of the stored credential, joining one already in
// flight.
func (c *Client) Refresh(ctx context.Context) (credential.Credential, error) {
	if err := c.scope.Err(); err != nil {
		return credential.Credential{}, fmt.Errorf("%w: %w", ErrClosed, err)
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	result, err := c.refresher.refresh(ctx, c.store.AccessToken())
	if err != nil {
		return credential.Credential{}, err
	}
	if result.callbackErr != nil {
		return result.cred, apierror.NewCallbackError(result.callbackErr)
	}
	return result.cred, nil
}

// SetAccessToken replaces the access token, keeping the refresh token.
func (c *Client) SetAccessToken(token string) {
	c.store.SetAccessToken(token)
}

// Credential returns the current credential and whether one is set.
func (c *Client) Credential() (credential.Credential, bool) {
	return c.store.Current()
}

// Token returns an oauth2.TokenSource reporting the current credential.
// Tokens it returns carry no expiry; refresh is driven by 401 responses.
func (c *Client) Token() oauth2.TokenSource {
	return storeTokenSource{store: c.store}
}

// TokenClient returns the token endpoint client the Client refreshes with.
func (c *Client) TokenClient() *oauth.Client {
	return c.tokens
}

// Close cancels every request in flight, including a running refresh.
// Subsequent calls fail with ErrClosed.
func (c *Client) Close() {
	c.cancel()
}

// requestContext derives a context that ends with either the caller's
// context or the client's scope.
func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.scope, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("transport: encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// finish attaches a refresh callback failure recorded for this request to
// the call's result.
func (c *Client) finish(st *requestState, err error) error {
	if st.callbackErr == nil {
		return err
	}

	var authErr *apierror.AuthError
	switch {
	case err == nil:
		return apierror.NewCallbackError(st.callbackErr)
	case errors.As(err, &authErr):
		authErr.CallbackErr = st.callbackErr
		return err
	default:
		return errors.Join(err, apierror.NewCallbackError(st.callbackErr))
	}
}

// decodeResponse maps a complete response to the call's result.
func decodeResponse(resp *http.Response, data []byte, out any) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if out == nil || len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("transport: decode response: %w", err)
		}
		return nil
	}

	eb := apierror.ParseErrorBody(data)
	if resp.StatusCode == http.StatusUnauthorized {
		return &apierror.AuthError{
			Description: eb.DescriptionOr("Unauthorized"),
			Code:        string(eb.Error),
		}
	}

	msg := eb.ErrorDescription
	if msg == "" {
		msg = eb.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &apierror.APIError{Message: msg, StatusCode: resp.StatusCode, Body: data}
}

// unwrapAuthError strips the *url.Error that http.Client adds around errors
// returned by authTransport. Other errors are returned unchanged.
func unwrapAuthError(err error) error {
	var authErr *apierror.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return err
}

// storeTokenSource adapts a credential store to oauth2.TokenSource.
type storeTokenSource struct {
	store *credential.Store
}

// Token implements oauth2.TokenSource.
func (s storeTokenSource) Token() (*oauth2.Token, error) {
	cred, ok := s.store.Current()
	if !ok || cred.AccessToken == "" {
		return nil, apierror.NewAuthError("No access token available", "")
	}
	return &oauth2.Token{
		AccessToken:  cred.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: cred.RefreshToken,
	}, nil
}
