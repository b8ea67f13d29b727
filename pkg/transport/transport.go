package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"admitad/pkg/apierror"
	"admitad/pkg/credential"
	"admitad/pkg/oauth"
)

type requestStateKey struct{}

// requestState belongs to one logical request. It lives in the request
// context so that every replay of the request sees the same retry marker.
type requestState struct {
	retried     bool
	callbackErr error
}

func withRequestState(ctx context.Context, st *requestState) context.Context {
	return context.WithValue(ctx, requestStateKey{}, st)
}

func requestStateFrom(ctx context.Context) (*requestState, bool) {
	st, ok := ctx.Value(requestStateKey{}).(*requestState)
	return st, ok
}

// authTransport is an http.RoundTripper that authenticates requests with the
// store's bearer token and recovers from a 401 by refreshing once.
type authTransport struct {
	base      http.RoundTripper
	store     *credential.Store
	refresher *refresher
	language  string
	limiter   *rate.Limiter
	metrics   *metrics
	logger    *slog.Logger
}

// RoundTrip implements http.RoundTripper.
//
// A 401 is passed through unchanged when the request was already retried or
// no refresh token is available. When the refresh fails, RoundTrip returns an
// *apierror.AuthError built from the 401 body with the refresh error as Cause.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	st, ok := requestStateFrom(ctx)
	if !ok {
		st = &requestState{}
	}

	token := t.store.AccessToken()
	resp, err := t.send(req, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || st.retried || t.store.RefreshToken() == "" {
		return resp, nil
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		// The body cannot be replayed.
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	st.retried = true

	if challenge := oauth.ChallengeFromResponse(resp); challenge != nil && challenge.Error != "" {
		t.logger.Debug("Request rejected", "path", req.URL.Path, "challenge_error", challenge.Error)
	}

	result, err := t.refresher.refresh(ctx, token)
	if err != nil {
		eb := apierror.ParseErrorBody(body)
		return nil, &apierror.AuthError{
			Description: eb.DescriptionOr("Unauthorized"),
			Code:        string(eb.Error),
			Cause:       err,
		}
	}
	st.callbackErr = result.callbackErr

	retry := req
	if req.GetBody != nil {
		retry = req.Clone(ctx)
		if retry.Body, err = req.GetBody(); err != nil {
			return nil, err
		}
	}

	t.metrics.retries.Inc()
	t.logger.Debug("Retrying request with refreshed token", "method", req.Method, "path", req.URL.Path)
	return t.send(retry, result.cred.AccessToken)
}

// send issues one attempt of req with the given bearer token.
func (t *authTransport) send(req *http.Request, token string) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	out := req.Clone(req.Context())
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if t.language != "" {
		q := out.URL.Query()
		if q.Get("language") == "" {
			q.Set("language", t.language)
			out.URL.RawQuery = q.Encode()
		}
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(out)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	t.metrics.observeRequest(req.Method, status, time.Since(start).Seconds())
	return resp, err
}
