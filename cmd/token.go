package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"admitad/internal/config"
	"admitad/pkg/apierror"
	"admitad/pkg/oauth"
)

// newTokenCmd requests a client-credentials token.
func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		scopes []string
		reveal bool
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Obtain an access token with the client credentials flow",
		Long: `Obtain an access token for the configured application using the
client_credentials grant and store it in the token file.

Examples:
  admitad token
  admitad token --scope advcampaigns --scope banners
  admitad token --scope all --show-tokens`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, config.RequireClient)
			if err != nil {
				return err
			}
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}

			cache := oauth.NewCredentialsCache(tokenClient(cfg), 0)
			token, err := cache.Token(cmd.Context(), cfg.ClientID, cfg.ClientSecret, scopeString(scopes, cfg.Scope))
			if err != nil {
				return err
			}

			view := viewOf(token, reveal)
			if save {
				if view.TokenFile, err = saveToken(cfg, token.ToCredential()); err != nil {
					return err
				}
			}
			return p.Print(view)
		},
	}

	cmd.Flags().StringSliceVar(&scopes, "scope", nil, `Scopes to request, "all" for every scope (default from config)`)
	cmd.Flags().BoolVar(&reveal, "show-tokens", false, "Print token values instead of fingerprints")
	cmd.Flags().BoolVar(&save, "save", true, "Store the token in the token file")
	return cmd
}

// scopeString joins flag scopes, expanding "all".
func scopeString(scopes []string, fallback string) string {
	if len(scopes) == 0 {
		return fallback
	}
	joined := make([]oauth.Scope, 0, len(scopes))
	for _, s := range scopes {
		if strings.EqualFold(s, "all") {
			return oauth.AllScopesString()
		}
		joined = append(joined, oauth.Scope(s))
	}
	return oauth.JoinScopes(joined...)
}

// newRefreshCmd exchanges the stored refresh token for a new credential.
func newRefreshCmd(opts *rootOptions) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the stored access token",
		Long: `Exchange the refresh token for a new token pair. The new pair replaces
the one in the token file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, config.RequireClient)
			if err != nil {
				return err
			}
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			// A failed save still yields a new credential; print it, then
			// report the save failure.
			cred, refreshErr := client.Refresh(cmd.Context())
			if refreshErr != nil && !apierror.IsCallbackOnly(refreshErr) {
				return refreshErr
			}
			if err := p.Print(tokenView{
				AccessToken:  showToken(cred.AccessToken, reveal),
				RefreshToken: showToken(cred.RefreshToken, reveal),
				ExpiresIn:    int(cred.ExpiresIn),
				TokenFile:    cfg.TokenFile,
			}); err != nil {
				return err
			}
			return refreshErr
		},
	}

	cmd.Flags().BoolVar(&reveal, "show-tokens", false, "Print token values instead of fingerprints")
	return cmd
}

// newAuthorizeURLCmd prints the authorization code flow URL.
func newAuthorizeURLCmd(opts *rootOptions) *cobra.Command {
	var (
		redirectURI string
		scopes      []string
		state       string
	)

	cmd := &cobra.Command{
		Use:   "authorize-url",
		Short: "Print the URL that starts the authorization code flow",
		Long: `Print the authorization URL for the configured application. Open it in a
browser; after consent the code is delivered to the redirect URI and can be
exchanged with 'admitad exchange <code>'.

A random state is generated unless --state is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, config.RequireClientID)
			if err != nil {
				return err
			}
			if redirectURI == "" {
				redirectURI = cfg.RedirectURI
			}
			if redirectURI == "" {
				return fmt.Errorf("a redirect URI is required: pass --redirect-uri or set redirectUri in config.yaml")
			}
			if state == "" {
				state = oauth.NewState()
			}

			authURL := tokenClient(cfg).BuildAuthorizationURL(cfg.ClientID, redirectURI, scopeString(scopes, cfg.Scope), state)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, authURL)
			fmt.Fprintf(cmd.ErrOrStderr(), "state: %s\n", state)
			return nil
		},
	}

	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "Redirect URI registered for the application (default from config)")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, `Scopes to request, "all" for every scope (default from config)`)
	cmd.Flags().StringVar(&state, "state", "", "State parameter echoed back to the redirect URI (default random)")
	return cmd
}

// newExchangeCmd trades an authorization code for a token pair.
func newExchangeCmd(opts *rootOptions) *cobra.Command {
	var (
		redirectURI string
		reveal      bool
	)

	cmd := &cobra.Command{
		Use:   "exchange <code>",
		Short: "Exchange an authorization code for tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, config.RequireClient)
			if err != nil {
				return err
			}
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}
			if redirectURI == "" {
				redirectURI = cfg.RedirectURI
			}

			token, err := exchange(cmd.Context(), tokenClient(cfg), cfg, args[0], redirectURI)
			if err != nil {
				return err
			}

			view := viewOf(token, reveal)
			if view.TokenFile, err = saveToken(cfg, token.ToCredential()); err != nil {
				return err
			}
			return p.Print(view)
		},
	}

	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "Redirect URI used for the authorization request (default from config)")
	cmd.Flags().BoolVar(&reveal, "show-tokens", false, "Print token values instead of fingerprints")
	return cmd
}

func exchange(ctx context.Context, c *oauth.Client, cfg config.Config, code, redirectURI string) (*oauth.TokenResponse, error) {
	return c.Exchange(ctx,
		oauth.ClientIdentity{ClientID: cfg.ClientID, ClientSecret: cfg.ClientSecret},
		oauth.AuthorizationCodeGrant{Code: code, RedirectURI: redirectURI},
	)
}

// newLogoutCmd removes the token file.
func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, config.RequireNothing)
			if err != nil {
				return err
			}
			if cfg.TokenFile == "" {
				return nil
			}
			if err := tokenFile(cfg).Delete(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", cfg.TokenFile)
			return nil
		},
	}
}
