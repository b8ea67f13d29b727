package tokenfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admitad/pkg/credential"
)

func newTestFile(t *testing.T, clientID string) *File {
	t.Helper()
	f := New(filepath.Join(t.TempDir(), "nested", "token.json"), clientID)
	f.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return f
}

func TestFile_LoadMissing(t *testing.T) {
	f := newTestFile(t, "id")
	_, err := f.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFile_SaveAndLoad(t *testing.T) {
	f := newTestFile(t, "id")
	require.NoError(t, f.Save(credential.Credential{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600}))

	token, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, credential.Credential{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600}, token.Credential())
	assert.Equal(t, "id", token.ClientID)
	assert.Equal(t, time.Date(2024, 1, 2, 4, 4, 5, 0, time.UTC), token.Expiry.UTC())
	assert.False(t, token.Expired(time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC)))
	assert.True(t, token.Expired(time.Date(2024, 1, 2, 4, 4, 5, 0, time.UTC)))
}

func TestFile_Permissions(t *testing.T) {
	f := newTestFile(t, "")
	require.NoError(t, f.Save(credential.Credential{AccessToken: "a"}))

	info, err := os.Stat(f.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(f.Path()))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	_, err = os.Stat(f.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFile_OtherClientIgnored(t *testing.T) {
	f := newTestFile(t, "first")
	require.NoError(t, f.Save(credential.Credential{AccessToken: "a"}))

	other := New(f.Path(), "second")
	_, err := other.Load()
	assert.ErrorIs(t, err, ErrNotFound)

	anyClient := New(f.Path(), "")
	token, err := anyClient.Load()
	require.NoError(t, err)
	assert.Equal(t, "a", token.AccessToken)
}

func TestFile_Corrupt(t *testing.T) {
	f := newTestFile(t, "")
	require.NoError(t, os.MkdirAll(filepath.Dir(f.Path()), 0o700))
	require.NoError(t, os.WriteFile(f.Path(), []byte("{"), 0o600))

	_, err := f.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFile_OnRefreshAndDelete(t *testing.T) {
	f := newTestFile(t, "")
	require.NoError(t, f.OnRefresh(context.Background(), credential.Credential{AccessToken: "new", RefreshToken: "r2"}))

	token, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", token.AccessToken)
	assert.True(t, token.Expiry.IsZero())
	assert.False(t, token.Expired(time.Now()))

	require.NoError(t, f.Delete())
	require.NoError(t, f.Delete())
	_, err = f.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}
