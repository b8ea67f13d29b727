package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"admitad/pkg/logging"
)

const (
	userConfigDir  = ".config/admitad"
	configFileName = "config.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ADMITAD_"
)

// osUserHomeDir is swapped in tests.
var osUserHomeDir = os.UserHomeDir

// DefaultConfigDir returns ~/.config/admitad.
func DefaultConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadOptions controls Load.
type LoadOptions struct {
	// ConfigDir holds config.yaml. Empty means DefaultConfigDir.
	ConfigDir string
	// EnvFiles are loaded with godotenv before overrides are applied.
	// Variables already set in the environment win. Missing files are
	// skipped.
	EnvFiles []string
}

// Load builds the configuration from defaults, config.yaml, .env files and
// ADMITAD_* variables. It does not validate the result.
func Load(opts LoadOptions) (Config, error) {
	cfg := GetDefaultConfig()

	dir := opts.ConfigDir
	if dir == "" {
		d, err := DefaultConfigDir()
		if err != nil {
			return Config{}, err
		}
		dir = d
	}

	if err := loadFile(filepath.Join(dir, configFileName), &cfg); err != nil {
		return Config{}, err
	}

	if err := loadEnvFiles(opts.EnvFiles); err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", path)
			return nil
		}
		return ConfigurationError{FilePath: path, ErrorType: "io", Message: err.Error()}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return ConfigurationError{
			FilePath:    path,
			ErrorType:   "parse",
			Message:     err.Error(),
			Suggestions: []string{"check the YAML syntax", "durations use Go syntax, e.g. 30s"},
		}
	}
	logging.Debug("ConfigLoader", "Loaded configuration from %s", path)
	return nil
}

func loadEnvFiles(files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return ConfigurationError{FilePath: f, ErrorType: "parse", Message: err.Error()}
		}
		logging.Debug("ConfigLoader", "Loaded environment from %s", f)
	}
	return nil
}

// applyEnv copies ADMITAD_* variables over cfg.
func applyEnv(cfg *Config) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"CLIENT_ID", &cfg.ClientID},
		{"CLIENT_SECRET", &cfg.ClientSecret},
		{"BASE_URL", &cfg.BaseURL},
		{"IDENTITY_URL", &cfg.IdentityURL},
		{"LANGUAGE", &cfg.Language},
		{"SCOPE", &cfg.Scope},
		{"REDIRECT_URI", &cfg.RedirectURI},
		{"TOKEN_FILE", &cfg.TokenFile},
		{"LOG_LEVEL", &cfg.LogLevel},
		{"LOG_FORMAT", &cfg.LogFormat},
		{"ACCESS_TOKEN", &cfg.AccessToken},
		{"REFRESH_TOKEN", &cfg.RefreshToken},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + s.name); ok {
			*s.dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return ConfigurationError{Field: "timeout", ErrorType: "parse", Message: fmt.Sprintf("%s%s: %v", EnvPrefix, "TIMEOUT", err)}
		}
		cfg.Timeout = d
	}

	if v, ok := os.LookupEnv(EnvPrefix + "REQUESTS_PER_MINUTE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ConfigurationError{Field: "requestsPerMinute", ErrorType: "parse", Message: fmt.Sprintf("%s%s: %v", EnvPrefix, "REQUESTS_PER_MINUTE", err)}
		}
		cfg.RequestsPerMinute = n
	}
	return nil
}
