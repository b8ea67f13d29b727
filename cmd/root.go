package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"admitad/internal/config"
	"admitad/pkg/apierror"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments, bad configuration).
	ExitCodeError = 1
	// ExitCodeAuthFailed indicates a token could not be obtained, refreshed or verified.
	ExitCodeAuthFailed = 2
	// ExitCodeAPIError indicates the API answered with a non-2xx status.
	ExitCodeAPIError = 3
)

const versionTemplate = `{{printf "admitad version %s\n" .Version}}`

// rootCmd is the command used by Execute.
var rootCmd = newRootCmd()

// newRootCmd builds the command tree. Each call returns an independent tree
// with its own flag values.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "admitad",
		Short: "Command line client for the Admitad affiliate API",
		Long: `admitad obtains and refreshes OAuth tokens for the Admitad API and
calls publisher endpoints with automatic token refresh.

Credentials are read from ~/.config/admitad/config.yaml, .env files and
ADMITAD_* environment variables. Tokens are stored in the token file and
updated whenever they are refreshed.`,
		SilenceUsage: true,
	}
	cmd.SetVersionTemplate(versionTemplate)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config-path", "", "Directory containing config.yaml (default ~/.config/admitad)")
	flags.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "Environment files to load before ADMITAD_* overrides")
	flags.StringVarP(&opts.output, "output", "o", "table", "Output format: table, json or yaml")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newVersionCmd(),
		newTokenCmd(opts),
		newRefreshCmd(opts),
		newAuthorizeURLCmd(opts),
		newExchangeCmd(opts),
		newVerifySignedRequestCmd(opts),
		newLogoutCmd(opts),
		newMeCmd(opts),
		newProgramsCmd(opts),
		newCategoriesCmd(opts),
		newGetCmd(opts),
	)
	return cmd
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code describing the failure.
// Interrupts cancel the command context, which aborts in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var cfgErrs config.ConfigurationErrorCollection
		if errors.As(err, &cfgErrs) {
			fmt.Fprintln(os.Stderr, cfgErrs.DetailedError())
		}
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	// A refresh that succeeded but could not be persisted still leaves the
	// command's own result intact; it is reported as an auth failure.
	var authErr *apierror.AuthError
	if errors.As(err, &authErr) {
		return ExitCodeAuthFailed
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return ExitCodeAPIError
	}

	// Default to general error
	return ExitCodeError
}
