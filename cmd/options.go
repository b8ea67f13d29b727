package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"admitad/internal/config"
	"admitad/internal/formatting"
	"admitad/internal/tokenfile"
	"admitad/pkg/apierror"
	"admitad/pkg/credential"
	"admitad/pkg/logging"
	"admitad/pkg/oauth"
	"admitad/pkg/publisher"
	"admitad/pkg/transport"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	envFiles   []string
	output     string
	logLevel   string
	noColor    bool
}

// load reads and validates the configuration and initializes logging on the
// command's stderr.
func (o *rootOptions) load(cmd *cobra.Command, req config.Requirement) (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigDir: o.configPath, EnvFiles: o.envFiles})
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(req); err != nil {
		return config.Config{}, err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.Init(level, logging.Format(cfg.LogFormat), cmd.ErrOrStderr())
	return cfg, nil
}

func (o *rootOptions) printer(cmd *cobra.Command) (*formatting.Printer, error) {
	format, err := formatting.ParseFormat(o.output)
	if err != nil {
		return nil, err
	}
	return formatting.NewPrinter(cmd.OutOrStdout(), formatting.Options{Format: format, Color: !o.noColor}), nil
}

// tokenClient builds a token endpoint client from cfg.
func tokenClient(cfg config.Config) *oauth.Client {
	identity := cfg.IdentityURL
	if identity == "" {
		identity = cfg.BaseURL
	}
	return oauth.NewClient(
		oauth.WithBaseURL(identity),
		oauth.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		oauth.WithLogger(logging.Logger("OAuth")),
	)
}

func tokenFile(cfg config.Config) *tokenfile.File {
	return tokenfile.New(cfg.TokenFile, cfg.ClientID)
}

// resolveCredential prefers ADMITAD_ACCESS_TOKEN / ADMITAD_REFRESH_TOKEN and
// falls back to the token file.
func resolveCredential(cfg config.Config) (credential.Credential, error) {
	if cfg.AccessToken != "" || cfg.RefreshToken != "" {
		return credential.Credential{AccessToken: cfg.AccessToken, RefreshToken: cfg.RefreshToken}, nil
	}
	if cfg.TokenFile == "" {
		return credential.Credential{}, apierror.NewAuthError("no credential available: set ADMITAD_ACCESS_TOKEN or configure tokenFile", "")
	}

	stored, err := tokenFile(cfg).Load()
	if errors.Is(err, tokenfile.ErrNotFound) {
		return credential.Credential{}, apierror.NewAuthError(
			fmt.Sprintf("no credential stored in %s: run 'admitad token' or 'admitad exchange' first", cfg.TokenFile), "")
	}
	if err != nil {
		return credential.Credential{}, err
	}
	return stored.Credential(), nil
}

// newClient creates an authenticated client whose refreshed credentials are
// written back to the token file.
func newClient(cfg config.Config) (*transport.Client, error) {
	cred, err := resolveCredential(cfg)
	if err != nil {
		return nil, err
	}

	tc := cfg.TransportConfig()
	tc.AccessToken = cred.AccessToken
	tc.RefreshToken = cred.RefreshToken
	if cfg.TokenFile != "" {
		tc.OnTokenRefresh = tokenFile(cfg).OnRefresh
	}
	return transport.New(tc)
}

func newPublisher(cfg config.Config) (*publisher.Publisher, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return publisher.NewWithClient(client), nil
}

// tokenView is what token commands print. Token values are redacted unless
// explicitly requested.
type tokenView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
	Username     string `json:"username,omitempty"`
	TokenFile    string `json:"token_file,omitempty"`
}

func showToken(value string, reveal bool) string {
	if value == "" || reveal {
		return value
	}
	return oauth.NewRedactedToken(value).LogValue().String()
}

func viewOf(t *oauth.TokenResponse, reveal bool) tokenView {
	return tokenView{
		AccessToken:  showToken(t.AccessToken, reveal),
		RefreshToken: showToken(t.RefreshToken, reveal),
		ExpiresIn:    t.ExpiresIn,
		Scope:        t.Scope,
		Username:     t.Username,
	}
}

// saveToken persists c when a token file is configured and returns its path.
func saveToken(cfg config.Config, c credential.Credential) (string, error) {
	if cfg.TokenFile == "" {
		return "", nil
	}
	if err := tokenFile(cfg).Save(c); err != nil {
		return "", err
	}
	return cfg.TokenFile, nil
}
