// Package transport provides the authenticated HTTP client used by the
// resource packages.
//
// A Client injects the current bearer token into every request, appends the
// configured response language and, when a request is rejected with 401,
// refreshes the credential and re-issues the request once. Concurrent 401s
// share a single refresh call:
//
//	client, err := transport.New(transport.Config{
//		ClientID:     id,
//		ClientSecret: secret,
//		AccessToken:  access,
//		RefreshToken: refresh,
//		OnTokenRefresh: func(ctx context.Context, c credential.Credential) error {
//			return save(c)
//		},
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	var me publisher.Profile
//	err = client.Get(ctx, "/me/", nil, &me)
//
// Failures are typed: *apierror.AuthError for credential problems,
// *apierror.APIError for other non-2xx responses. Network errors are returned
// unchanged and never retried.
//
// Close cancels every request in flight, including one waiting on a refresh.
package transport
