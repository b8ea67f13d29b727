package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Provider error codes carried in the "error" field of API error bodies.
const (
	// CodeTokenExpired means the access token has expired.
	CodeTokenExpired = 0
	// CodeTokenInvalid means the token does not exist or is malformed.
	CodeTokenInvalid = 1
	// CodeInsufficientPermissions means the token lacks a required scope.
	CodeInsufficientPermissions = 2
	// CodeMalformedRequest means the request could not be parsed.
	CodeMalformedRequest = 3
	// CodeRateLimitExceeded means the 600 requests per minute limit was hit.
	CodeRateLimitExceeded = 4
	// CodeRefreshTokenNotFound means the refresh token is unknown or already used.
	CodeRefreshTokenNotFound = 5
	// CodeTokenLimitExceeded means too many tokens were issued for the application.
	CodeTokenLimitExceeded = 6
)

// AuthError reports a failure to obtain, refresh or verify a credential.
type AuthError struct {
	// Description is the human-readable reason, usually the provider's
	// error_description.
	Description string

	// Code is the provider's "error" value, empty when none was sent.
	Code string

	// Cause is the underlying failure, e.g. the refresh error that made a
	// 401 terminal.
	Cause error

	// CallbackErr is set when the credential was refreshed successfully but
	// the caller's refresh callback failed. It never replaces Cause.
	CallbackErr error
}

// DescriptionCallbackFailed describes an AuthError whose only failure is the
// refresh callback.
const DescriptionCallbackFailed = "Token refresh callback failed"

// NewCallbackError reports a refresh callback failure on a call that
// otherwise succeeded.
func NewCallbackError(callbackErr error) *AuthError {
	return &AuthError{Description: DescriptionCallbackFailed, CallbackErr: callbackErr}
}

// NewAuthError creates an AuthError with the given description and provider code.
func NewAuthError(description, code string) *AuthError {
	return &AuthError{Description: description, Code: code}
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := "auth error: " + e.Description
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the cause for error chain inspection.
func (e *AuthError) Unwrap() error {
	return e.Cause
}

// APIError reports a non-2xx response that is not an authorization failure.
type APIError struct {
	// Message is taken from error_description or message in the body,
	// falling back to the HTTP status text.
	Message string

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Body is the raw response body.
	Body []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether the API rejected the call for exceeding its rate limit.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports whether the requested resource does not exist.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ValidationError reports caller input rejected before any request is made.
type ValidationError struct {
	Description string
	// Field names the offending parameter, empty if not applicable.
	Field string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Description)
	}
	return "validation error: " + e.Description
}

// NotImplementedError reports a client surface that is not available yet.
type NotImplementedError struct {
	Feature string
}

// Error implements the error interface.
func (e *NotImplementedError) Error() string {
	return e.Feature + " is not implemented yet"
}

// IsAuthError reports whether err is or wraps an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsCallbackOnly reports whether err only carries a refresh callback
// failure, meaning the call itself succeeded and its result is valid.
// Errors joined with another failure are not callback-only.
func IsCallbackOnly(err error) bool {
	for err != nil {
		if authErr, ok := err.(*AuthError); ok {
			return authErr.CallbackErr != nil && authErr.Cause == nil &&
				authErr.Code == "" && authErr.Description == DescriptionCallbackFailed
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsAPIError reports whether err is or wraps an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// StatusCode returns the HTTP status carried by an APIError in err's chain,
// or 0 if there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
