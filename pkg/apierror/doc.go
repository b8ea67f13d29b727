// Package apierror defines the typed failures returned by the admitad client.
//
// Callers branch on the concrete kind with errors.As:
//
//   - AuthError: obtaining, refreshing or verifying a credential failed.
//     Re-authentication is required; retrying the same call will not help.
//   - APIError: the API answered with a non-2xx status other than 401.
//   - ValidationError: a helper rejected structurally invalid input before
//     any request was sent.
//   - NotImplementedError: the requested client surface does not exist yet.
//
// Transport failures (DNS, timeouts, connection resets, context
// cancellation) are not wrapped in any of these types and keep their
// original identity for errors.Is.
package apierror
