package oauth

import "github.com/google/uuid"

// NewState returns a random value for the state parameter of an
// authorization URL, to be compared with the state echoed to the redirect URI.
func NewState() string {
	return uuid.NewString()
}
