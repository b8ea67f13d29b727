package config

import "time"

// Config is the CLI configuration. Fields are filled from, in increasing
// precedence: defaults, config.yaml, .env files and ADMITAD_* variables.
type Config struct {
	ClientID     string `yaml:"clientId,omitempty"`
	ClientSecret string `yaml:"clientSecret,omitempty"`

	// BaseURL is the resource endpoint.
	BaseURL string `yaml:"baseUrl,omitempty"`
	// IdentityURL is the token endpoint base; empty means BaseURL.
	IdentityURL string `yaml:"identityUrl,omitempty"`

	Language string        `yaml:"language,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`

	// Scope is the default space-separated scope list for token requests.
	Scope       string `yaml:"scope,omitempty"`
	RedirectURI string `yaml:"redirectUri,omitempty"`

	// TokenFile stores the credential between CLI runs.
	TokenFile string `yaml:"tokenFile,omitempty"`

	RequestsPerMinute int `yaml:"requestsPerMinute,omitempty"`

	LogLevel  string `yaml:"logLevel,omitempty"`
	LogFormat string `yaml:"logFormat,omitempty"`

	// AccessToken and RefreshToken are only read from the environment, so
	// that credentials never end up in config.yaml.
	AccessToken  string `yaml:"-"`
	RefreshToken string `yaml:"-"`
}
