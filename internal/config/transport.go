package config

import (
	"admitad/pkg/logging"
	"admitad/pkg/transport"
)

// TransportConfig maps cfg onto a transport.Config. Callbacks, HTTP client
// and metrics are left for the caller.
func (cfg Config) TransportConfig() transport.Config {
	return transport.Config{
		ClientID:          cfg.ClientID,
		ClientSecret:      cfg.ClientSecret,
		AccessToken:       cfg.AccessToken,
		RefreshToken:      cfg.RefreshToken,
		BaseURL:           cfg.BaseURL,
		IdentityURL:       cfg.IdentityURL,
		Timeout:           cfg.Timeout,
		Language:          cfg.Language,
		Logger:            logging.Logger("Transport"),
		RequestsPerMinute: cfg.RequestsPerMinute,
	}
}
