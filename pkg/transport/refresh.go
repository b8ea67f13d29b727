package transport

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"admitad/pkg/apierror"
	"admitad/pkg/credential"
	"admitad/pkg/oauth"
)

// refreshKey is the only singleflight key: a client has at most one refresh
// in flight.
const refreshKey = "refresh"

// refreshResult is what a refresh call broadcasts to its driver and waiters.
type refreshResult struct {
	cred        credential.Credential
	callbackErr error
}

// refresher serializes refresh grants for one client. The first caller to
// need a new credential drives the refresh; callers arriving while it is in
// flight wait for the same result.
type refresher struct {
	tokens    *oauth.Client
	identity  oauth.ClientIdentity
	store     *credential.Store
	onRefresh RefreshFunc
	logger    *slog.Logger
	metrics   *metrics

	// scope bounds the refresh call itself. It is the client's lifetime, not
	// any single caller's, so one caller giving up does not fail the others.
	scope context.Context

	group singleflight.Group
}

// refresh returns the credential produced by the in-flight refresh, starting
// one if none is running. rejected is the access token the caller's request
// was refused with; if the store already holds a different one, that
// credential is returned without a new grant.
//
// A refresh failure is returned identically to every caller and leaves the
// store untouched. A callback failure is reported in callbackErr to the
// driver only.
func (r *refresher) refresh(ctx context.Context, rejected string) (refreshResult, error) {
	drove := false
	ch := r.group.DoChan(refreshKey, func() (interface{}, error) {
		drove = true
		return r.do(rejected)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return refreshResult{}, res.Err
		}
		out := *res.Val.(*refreshResult)
		if !drove {
			out.callbackErr = nil
		}
		return out, nil
	case <-ctx.Done():
		return refreshResult{}, ctx.Err()
	}
}

// do performs one refresh grant with the store's current refresh token.
func (r *refresher) do(rejected string) (*refreshResult, error) {
	cur, _ := r.store.Current()
	if cur.AccessToken != "" && cur.AccessToken != rejected {
		// A refresh finished after the caller's request was sent.
		return &refreshResult{cred: cur}, nil
	}

	refreshToken := cur.RefreshToken
	if refreshToken == "" {
		r.metrics.observeRefresh(refreshFailure)
		return nil, apierror.NewAuthError("No refresh token available", "")
	}

	token, err := r.tokens.Refresh(r.scope, r.identity.ClientID, r.identity.ClientSecret, refreshToken)
	if err != nil {
		r.metrics.observeRefresh(refreshFailure)
		r.logger.Warn("Token refresh failed", "error", err)
		return nil, err
	}

	cred := token.ToCredential()
	if cred.RefreshToken == "" {
		// Keep the old refresh token if the endpoint did not rotate it.
		cred.RefreshToken = refreshToken
	}
	r.store.Replace(cred)

	r.logger.Debug("Token refreshed",
		"access_token", oauth.NewRedactedToken(cred.AccessToken),
		"expires_in", cred.ExpiresIn)

	result := &refreshResult{cred: cred}
	if r.onRefresh != nil {
		if err := r.onRefresh(r.scope, cred); err != nil {
			r.metrics.observeRefresh(refreshCallbackError)
			r.logger.Warn("Token refresh callback failed", "error", err)
			result.callbackErr = err
			return result, nil
		}
	}

	r.metrics.observeRefresh(refreshSuccess)
	return result, nil
}
