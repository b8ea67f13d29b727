// Package tokenfile persists the CLI's credential between runs.
//
// The file holds the token pair as JSON. It is written with 0600 permissions
// inside a 0700 directory and token values are never logged.
package tokenfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"admitad/pkg/credential"
	"admitad/pkg/logging"
)

// ErrNotFound is returned by Load when no token file exists.
var ErrNotFound = errors.New("no stored token")

// StoredToken is the on-disk form of a credential.
type StoredToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresIn    uint32    `json:"expires_in,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	ClientID     string    `json:"client_id,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

// Credential converts the stored token back to a credential.
func (t StoredToken) Credential() credential.Credential {
	return credential.Credential{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
	}
}

// Expired reports whether the access token is known to have expired.
// Tokens without an expiry never expire here; the server decides.
func (t StoredToken) Expired(now time.Time) bool {
	return !t.Expiry.IsZero() && !now.Before(t.Expiry)
}

// File reads and writes one token file.
type File struct {
	mu       sync.Mutex
	path     string
	clientID string
	now      func() time.Time
}

// New returns a File at path. clientID is recorded alongside the token so a
// file written for another application can be told apart.
func New(path, clientID string) *File {
	return &File{path: path, clientID: clientID, now: time.Now}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Load reads the stored token. It returns ErrNotFound if the file does not
// exist.
func (f *File) Load() (StoredToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// #nosec G304 -- path comes from the CLI configuration
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StoredToken{}, ErrNotFound
		}
		return StoredToken{}, fmt.Errorf("failed to read token file: %w", err)
	}

	var token StoredToken
	if err := json.Unmarshal(data, &token); err != nil {
		return StoredToken{}, fmt.Errorf("failed to unmarshal token file %s: %w", f.path, err)
	}
	if f.clientID != "" && token.ClientID != "" && token.ClientID != f.clientID {
		logging.Warn("TokenFile", "Token file %s belongs to client %s, ignoring it", f.path, token.ClientID)
		return StoredToken{}, ErrNotFound
	}
	return token, nil
}

// Save writes c to the file, creating the directory if needed.
func (f *File) Save(c credential.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	token := StoredToken{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		ExpiresIn:    c.ExpiresIn,
		ClientID:     f.clientID,
		SavedAt:      now,
	}
	if c.ExpiresIn > 0 {
		token.Expiry = now.Add(time.Duration(c.ExpiresIn) * time.Second)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	// Write to a temp file first so a crash never leaves a truncated token.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write token file: %w", err)
	}

	logging.Info("TokenFile", "Stored token in %s (has refresh token: %t)", f.path, c.HasRefreshToken())
	return nil
}

// OnRefresh adapts Save to the transport's refresh callback.
func (f *File) OnRefresh(_ context.Context, c credential.Credential) error {
	return f.Save(c)
}

// Delete removes the file. A missing file is not an error.
func (f *File) Delete() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	logging.Info("TokenFile", "Deleted token file %s", f.path)
	return nil
}
