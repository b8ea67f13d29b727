// Package logging provides process-wide structured logging on top of
// log/slog.
//
// Entries carry a subsystem identifier and an optional error:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("CLI", "Loaded configuration from %s", path)
//	logging.Error("TokenFile", err, "Failed to persist refreshed credential")
//
// Packages that accept an injected *slog.Logger, such as transport and
// oauth, get one tagged with their subsystem from Logger:
//
//	client, err := transport.New(transport.Config{
//		Logger: logging.Logger("Transport"),
//	})
//
// Token values must never be logged as plain strings; wrap them in
// oauth.RedactedToken.
package logging
