package oauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"strings"

	"admitad/pkg/apierror"
)

// SignedRequestAlgorithm is the only algorithm accepted in signed requests.
const SignedRequestAlgorithm = "HMAC-SHA256"

// SignedRequestPayload is the session data delivered to an embedded
// application. It is only returned after its signature has been verified.
type SignedRequestPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	Algorithm    string `json:"algorithm"`
	UserID       int64  `json:"id,omitempty"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Language     string `json:"language,omitempty"`

	// Raw is the decoded JSON payload, including fields not mapped above.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON is strict about the session fields and lenient about the
// profile fields: numbers may arrive quoted, strings may arrive as numbers,
// and values of any other shape are left at their zero value.
func (p *SignedRequestPayload) UnmarshalJSON(data []byte) error {
	type session struct {
		AccessToken  string          `json:"access_token"`
		RefreshToken string          `json:"refresh_token"`
		Algorithm    string          `json:"algorithm"`
		ExpiresIn    json.RawMessage `json:"expires_in"`
		UserID       json.RawMessage `json:"id"`
		Username     json.RawMessage `json:"username"`
		FirstName    json.RawMessage `json:"first_name"`
		LastName     json.RawMessage `json:"last_name"`
		Language     json.RawMessage `json:"language"`
	}

	var s session
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	*p = SignedRequestPayload{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Algorithm:    s.Algorithm,
		ExpiresIn:    int(lenientInt(s.ExpiresIn)),
		UserID:       lenientInt(s.UserID),
		Username:     lenientString(s.Username),
		FirstName:    lenientString(s.FirstName),
		LastName:     lenientString(s.LastName),
		Language:     lenientString(s.Language),
	}
	return nil
}

// lenientInt reads a JSON number or a quoted integer.
func lenientInt(raw json.RawMessage) int64 {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		n = json.Number(strings.TrimSpace(s))
	}
	if v, err := n.Int64(); err == nil {
		return v
	}
	if f, err := n.Float64(); err == nil {
		return int64(f)
	}
	return 0
}

// lenientString reads a JSON string or the literal text of a number.
func lenientString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// VerifySignedRequest decodes a signed request of the form
// base64url(signature).base64url(json) and verifies its HMAC-SHA256
// signature against clientSecret.
//
// The signature is computed over the encoded payload segment as received,
// not over the decoded JSON. Comparison is constant-time.
func VerifySignedRequest(signedRequest, clientSecret string) (*SignedRequestPayload, error) {
	parts := strings.Split(signedRequest, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, apierror.NewAuthError("Invalid signed_request format", "")
	}
	encodedSignature, encodedData := parts[0], parts[1]

	data, err := decodeSegment(encodedData)
	if err != nil {
		return nil, &apierror.AuthError{Description: "Invalid signed_request encoding", Cause: err}
	}

	var payload SignedRequestPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &apierror.AuthError{Description: "Invalid signed_request JSON", Cause: err}
	}
	payload.Raw = json.RawMessage(data)

	if payload.AccessToken == "" || payload.Algorithm == "" {
		return nil, apierror.NewAuthError("Invalid signed_request data structure", "")
	}

	if !strings.EqualFold(payload.Algorithm, SignedRequestAlgorithm) {
		return nil, apierror.NewAuthError("Unsupported algorithm: "+payload.Algorithm, "")
	}

	expected := []byte(signSegment(encodedData, clientSecret))
	actual := []byte(normalizeSignature(encodedSignature))

	if len(expected) != len(actual) || subtle.ConstantTimeCompare(expected, actual) != 1 {
		return nil, apierror.NewAuthError("Invalid signed_request signature", "")
	}

	return &payload, nil
}

// SignRequest encodes payload as JSON and signs it with clientSecret,
// producing a value VerifySignedRequest accepts.
func SignRequest(payload any, clientSecret string) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	encodedData := base64.RawURLEncoding.EncodeToString(data)
	return signSegment(encodedData, clientSecret) + "." + encodedData, nil
}

// signSegment returns the unpadded base64url HMAC-SHA256 of segment.
func signSegment(segment, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(segment))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// normalizeSignature maps a standard-alphabet or padded signature onto
// unpadded base64url.
func normalizeSignature(sig string) string {
	sig = strings.NewReplacer("+", "-", "/", "_").Replace(sig)
	return strings.TrimRight(sig, "=")
}

// decodeSegment decodes base64 in either alphabet, padded or not.
func decodeSegment(segment string) ([]byte, error) {
	segment = strings.NewReplacer("-", "+", "_", "/").Replace(segment)
	segment = strings.TrimRight(segment, "=")
	return base64.RawStdEncoding.DecodeString(segment)
}
