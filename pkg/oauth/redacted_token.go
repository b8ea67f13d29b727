package oauth

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

const redacted = "[REDACTED]"

// RedactedToken wraps an access or refresh token so it cannot leak through
// fmt, slog or JSON output. Only Value returns the secret.
type RedactedToken struct {
	value string
}

// NewRedactedToken creates a new RedactedToken wrapping the given value.
func NewRedactedToken(value string) RedactedToken {
	return RedactedToken{value: value}
}

// Value returns the actual token value. Never log the result.
func (t RedactedToken) Value() string {
	return t.value
}

// IsEmpty returns true if the token value is empty.
func (t RedactedToken) IsEmpty() bool {
	return t.value == ""
}

// Fingerprint returns the first 8 hex characters of the token's SHA-256,
// enough to tell two tokens apart in logs without revealing either.
func (t RedactedToken) Fingerprint() string {
	if t.value == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(t.value))
	return hex.EncodeToString(sum[:4])
}

// String implements fmt.Stringer.
func (t RedactedToken) String() string {
	return redacted
}

// GoString implements fmt.GoStringer for %#v.
func (t RedactedToken) GoString() string {
	return "oauth.RedactedToken{" + redacted + "}"
}

// LogValue implements slog.LogValuer. Empty tokens log as "", others as
// their fingerprint.
func (t RedactedToken) LogValue() slog.Value {
	if t.value == "" {
		return slog.StringValue("")
	}
	return slog.StringValue(redacted + ":" + t.Fingerprint())
}

// MarshalText implements encoding.TextMarshaler.
func (t RedactedToken) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// MarshalJSON implements json.Marshaler.
func (t RedactedToken) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}
