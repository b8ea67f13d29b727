package cmd

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCmd(t *testing.T) {
	versionCmd := newVersionCmd()

	assert.Equal(t, "version", versionCmd.Use)
	assert.NotEmpty(t, versionCmd.Short)
	assert.NotEmpty(t, versionCmd.Long)
	assert.NotNil(t, versionCmd.Run)
	assert.NotNil(t, versionCmd.Flags().Lookup("build"))
}

func TestVersionCommandBuildDetails(t *testing.T) {
	root := newRootCmd()
	root.Version = "1.2.3-test"

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version", "--build"})
	require.NoError(t, root.Execute())

	assert.Equal(t,
		"admitad version 1.2.3-test\ngo: "+runtime.Version()+"\nplatform: "+runtime.GOOS+"/"+runtime.GOARCH+"\n",
		buf.String())
}

func TestVersionCommandExecution(t *testing.T) {
	root := newRootCmd()
	root.Version = "1.2.3-test"

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "admitad version 1.2.3-test\n", buf.String())
}

func TestVersionCommandWithEmptyVersion(t *testing.T) {
	root := newRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.Contains(t, buf.String(), "admitad version")
}

func TestVersionFlag(t *testing.T) {
	root := newRootCmd()
	root.Version = "1.0.0"

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "admitad version 1.0.0\n", buf.String())
}
