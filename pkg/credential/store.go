// Package credential holds the access/refresh token pair used by a client.
package credential

import "sync"

// Credential is an access/refresh token pair as issued by the token endpoint.
// Values are replaced wholesale, never mutated in place.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    uint32 `json:"expires_in"`
}

// HasRefreshToken reports whether the credential can be refreshed.
func (c Credential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// Store is the single cell holding a client's current credential.
//
// Replacements are serialized by the refresh coordinator; the lock only keeps
// concurrent readers (requests injecting the bearer token) from observing a
// torn value.
type Store struct {
	mu      sync.RWMutex
	current Credential
	set     bool
}

// NewStore creates a store seeded with the given credential. An entirely
// empty credential leaves the store unset.
func NewStore(initial Credential) *Store {
	s := &Store{}
	if initial != (Credential{}) {
		s.current = initial
		s.set = true
	}
	return s
}

// Current returns the current credential and whether one is set.
func (s *Store) Current() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.set
}

// AccessToken returns the current access token, or "" if none is set.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken
}

// RefreshToken returns the current refresh token, or "" if none is set.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.RefreshToken
}

// Replace installs c as the current credential.
func (s *Store) Replace(c Credential) {
	s.mu.Lock()
	s.current = c
	s.set = true
	s.mu.Unlock()
}

// SetAccessToken replaces only the access token, keeping the refresh token.
func (s *Store) SetAccessToken(token string) {
	s.mu.Lock()
	s.current = Credential{
		AccessToken:  token,
		RefreshToken: s.current.RefreshToken,
	}
	s.set = true
	s.mu.Unlock()
}
