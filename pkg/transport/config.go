package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"admitad/pkg/apierror"
	"admitad/pkg/credential"
	"admitad/pkg/oauth"
)

const (
	// DefaultBaseURL is the resource endpoint of the production API.
	DefaultBaseURL = "https://api.admitad.com"

	// DefaultTimeout bounds a whole logical request, refresh and retry included.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerMinute matches the API's documented per-client limit.
	DefaultRequestsPerMinute = 600
)

// RefreshFunc is called after every successful refresh with the new
// credential, typically to persist it. A returned error does not undo the
// refresh.
type RefreshFunc func(ctx context.Context, c credential.Credential) error

// Config configures a Client.
type Config struct {
	ClientID     string
	ClientSecret string

	// AccessToken and RefreshToken seed the credential store. Both may be
	// empty; requests are then sent without an Authorization header.
	AccessToken  string
	RefreshToken string

	// BaseURL is the resource endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// IdentityURL is the token endpoint base. Defaults to BaseURL.
	IdentityURL string

	// Timeout bounds each call. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Language is sent as the "language" query parameter on every request.
	Language string

	OnTokenRefresh RefreshFunc

	// HTTPClient supplies the underlying transport. Its Timeout is ignored
	// in favour of Timeout.
	HTTPClient *http.Client

	Logger *slog.Logger

	// RequestsPerMinute caps outgoing requests. Zero uses
	// DefaultRequestsPerMinute; a negative value disables limiting.
	RequestsPerMinute int

	// MetricsRegisterer receives the client's collectors. Nil leaves them
	// unregistered.
	MetricsRegisterer prometheus.Registerer
}

// identity returns the client identity used for refresh grants.
func (c Config) identity() oauth.ClientIdentity {
	return oauth.ClientIdentity{ClientID: c.ClientID, ClientSecret: c.ClientSecret}
}

// withDefaults returns a copy of c with every unset field defaulted.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.IdentityURL == "" {
		c.IdentityURL = c.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
	return c
}

// validate checks the fields New cannot default.
func (c Config) validate() error {
	if c.ClientID == "" {
		return &apierror.ValidationError{Field: "client_id", Description: "is required"}
	}
	if c.ClientSecret == "" {
		return &apierror.ValidationError{Field: "client_secret", Description: "is required"}
	}
	return nil
}
