// Package config loads CLI settings for the admitad command.
//
// Settings are layered, later sources winning:
//   - built-in defaults (GetDefaultConfig)
//   - ~/.config/admitad/config.yaml, or config.yaml in the --config-path directory
//   - .env files, loaded with godotenv without overriding the environment
//   - ADMITAD_* environment variables
//
// Access and refresh tokens are never read from config.yaml. They come from
// ADMITAD_ACCESS_TOKEN / ADMITAD_REFRESH_TOKEN or from the token file.
//
// Example config.yaml:
//
//	clientId: my-client
//	baseUrl: https://api.admitad.com
//	language: en
//	timeout: 30s
//	scope: private_data private_data_balance advcampaigns
//	logLevel: info
package config
