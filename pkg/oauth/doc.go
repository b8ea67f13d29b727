// Package oauth implements the OAuth2 flows of the Admitad identity endpoint
// and the verification of signed requests delivered to embedded applications.
//
// # Core Components
//
//   - Client: token endpoint operations (client credentials, refresh token,
//     authorization code) and authorization URL construction
//   - Grant: the three token request shapes as a closed sum type, dispatched
//     by Client.Exchange
//   - TokenResponse: the raw token endpoint payload, convertible to a
//     credential.Credential or an oauth2.Token
//   - VerifySignedRequest / SignRequest: HMAC-SHA256 signed payloads
//   - CredentialsCache: reuse of client-credentials tokens until they expire
//   - Scope: the API's access scopes
//
// The Client holds no token state. Every operation takes its inputs
// explicitly, so a single Client may be shared by any number of callers.
//
// # Usage
//
//	client := oauth.NewClient(oauth.WithLogger(logger))
//	resp, err := client.ClientCredentials(ctx, clientID, clientSecret,
//		oauth.JoinScopes(oauth.ScopeStatistics, oauth.ScopeAdvcampaigns))
//	if err != nil {
//		var authErr *apierror.AuthError
//		if errors.As(err, &authErr) {
//			// provider rejected the request
//		}
//		return err
//	}
//	cred := resp.ToCredential()
//
// Token values are never logged. Use RedactedToken when a token has to
// appear in a log attribute.
package oauth
