package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"admitad/internal/config"
	"admitad/pkg/credential"
	"admitad/pkg/oauth"
)

type signedRequestView struct {
	UserID       int64  `json:"id,omitempty"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Language     string `json:"language,omitempty"`
	Algorithm    string `json:"algorithm"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	TokenFile    string `json:"token_file,omitempty"`
}

// newVerifySignedRequestCmd verifies the signed_request handed to an
// embedded application.
func newVerifySignedRequestCmd(opts *rootOptions) *cobra.Command {
	var (
		reveal bool
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "verify-signed-request [signed_request]",
		Short: "Verify a signed_request and print its payload",
		Long: `Verify the HMAC-SHA256 signature of a signed_request with the client
secret and print the decoded session. Reads the value from stdin when no
argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, config.RequireClient)
			if err != nil {
				return err
			}
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}

			signed, err := signedRequestArg(cmd, args)
			if err != nil {
				return err
			}

			payload, err := oauth.VerifySignedRequest(signed, cfg.ClientSecret)
			if err != nil {
				return err
			}

			view := signedRequestView{
				UserID:       payload.UserID,
				Username:     payload.Username,
				FirstName:    payload.FirstName,
				LastName:     payload.LastName,
				Language:     payload.Language,
				Algorithm:    payload.Algorithm,
				AccessToken:  showToken(payload.AccessToken, reveal),
				RefreshToken: showToken(payload.RefreshToken, reveal),
				ExpiresIn:    payload.ExpiresIn,
			}
			if save {
				cred := credential.Credential{AccessToken: payload.AccessToken, RefreshToken: payload.RefreshToken}
				if payload.ExpiresIn > 0 {
					cred.ExpiresIn = uint32(payload.ExpiresIn)
				}
				if view.TokenFile, err = saveToken(cfg, cred); err != nil {
					return err
				}
			}
			return p.Print(view)
		},
	}

	cmd.Flags().BoolVar(&reveal, "show-tokens", false, "Print token values instead of fingerprints")
	cmd.Flags().BoolVar(&save, "save", false, "Store the session tokens in the token file")
	return cmd
}

func signedRequestArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read signed_request from stdin: %w", err)
	}
	signed := strings.TrimSpace(string(data))
	if signed == "" {
		return "", fmt.Errorf("no signed_request given")
	}
	return signed, nil
}
