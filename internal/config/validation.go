package config

import (
	"net/url"
	"strings"

	"admitad/pkg/logging"
	"admitad/pkg/publisher"
)

// Requirement selects which fields Validate insists on.
type Requirement int

const (
	// RequireNothing only checks the format of fields that are set.
	RequireNothing Requirement = iota
	// RequireClientID additionally needs a client ID.
	RequireClientID
	// RequireClient needs a client ID and secret.
	RequireClient
)

// Validate checks cfg and returns a ConfigurationErrorCollection listing
// every problem, or nil.
func (cfg Config) Validate(req Requirement) error {
	var errs ConfigurationErrorCollection

	if req >= RequireClientID && strings.TrimSpace(cfg.ClientID) == "" {
		errs.AddValidation("clientId", "is required",
			"set clientId in config.yaml", "or export ADMITAD_CLIENT_ID")
	}
	if req >= RequireClient && strings.TrimSpace(cfg.ClientSecret) == "" {
		errs.AddValidation("clientSecret", "is required",
			"set clientSecret in config.yaml", "or export ADMITAD_CLIENT_SECRET")
	}

	for _, f := range []struct{ name, value string }{
		{"baseUrl", cfg.BaseURL},
		{"identityUrl", cfg.IdentityURL},
	} {
		if f.value == "" {
			continue
		}
		if u, err := url.Parse(f.value); err != nil || u.Scheme == "" || u.Host == "" {
			errs.AddValidation(f.name, "must be an absolute URL, got "+f.value)
		}
	}

	if cfg.Language != "" && !publisher.IsLanguage(cfg.Language) {
		errs.AddValidation("language", "unsupported language "+cfg.Language,
			"use one of "+strings.Join(publisher.Languages, ", "))
	}

	if cfg.Timeout < 0 {
		errs.AddValidation("timeout", "must not be negative")
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		errs.AddValidation("logLevel", err.Error(), "use debug, info, warn or error")
	}

	if cfg.LogFormat != "" && cfg.LogFormat != string(logging.FormatText) && cfg.LogFormat != string(logging.FormatJSON) {
		errs.AddValidation("logFormat", "must be text or json")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
