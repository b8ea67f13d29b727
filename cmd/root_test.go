package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admitad/internal/config"
	"admitad/pkg/apierror"
)

func TestSetVersion(t *testing.T) {
	original := GetVersion()
	t.Cleanup(func() { SetVersion(original) })

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	assert.Equal(t, "admitad", root.Use)
	assert.NotEmpty(t, root.Short)
	assert.NotEmpty(t, root.Long)
	assert.True(t, root.SilenceUsage)

	for _, name := range []string{"config-path", "env-file", "output", "log-level", "no-color"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
}

func TestSubcommands(t *testing.T) {
	found := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		found[c.Name()] = true
	}

	for _, expected := range []string{
		"version", "token", "refresh", "authorize-url", "exchange",
		"verify-signed-request", "logout", "me", "programs", "categories", "get",
	} {
		assert.True(t, found[expected], "expected subcommand %s to be registered", expected)
	}
}

func TestRootCommandHelp(t *testing.T) {
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Contains(t, buf.String(), "admitad")
	assert.Contains(t, buf.String(), "automatic token refresh")
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"plain", errors.New("boom"), ExitCodeError},
		{"config", config.ConfigurationErrorCollection{}, ExitCodeError},
		{"auth", apierror.NewAuthError("Bad refresh token", "invalid_grant"), ExitCodeAuthFailed},
		{"wrapped auth", fmt.Errorf("me: %w", apierror.NewAuthError("x", "")), ExitCodeAuthFailed},
		{"api", &apierror.APIError{StatusCode: 404, Message: "Not found"}, ExitCodeAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}
