package config

import (
	"path/filepath"

	"admitad/pkg/oauth"
	"admitad/pkg/transport"
)

const (
	// DefaultLanguage is the API's own default response language.
	DefaultLanguage = "ru"

	// DefaultScope is requested when neither flags nor config name a scope.
	DefaultScope = string(oauth.ScopePrivateData)

	tokenFileName = "token.json"
)

// GetDefaultConfig returns the configuration used when nothing is set.
func GetDefaultConfig() Config {
	cfg := Config{
		BaseURL:           transport.DefaultBaseURL,
		Language:          DefaultLanguage,
		Timeout:           transport.DefaultTimeout,
		Scope:             DefaultScope,
		RequestsPerMinute: transport.DefaultRequestsPerMinute,
		LogLevel:          "info",
		LogFormat:         "text",
	}
	if dir, err := DefaultConfigDir(); err == nil {
		cfg.TokenFile = filepath.Join(dir, tokenFileName)
	}
	return cfg
}
