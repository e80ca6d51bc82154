package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/stefanrichterhuber/pcloud-go/internal/config"
	"github.com/stefanrichterhuber/pcloud-go/internal/tokenfile"
	"github.com/stefanrichterhuber/pcloud-go/pcloud"
)

// newLoginCmd stores an OAuth access token for later commands. pCloud
// issues non-expiring access tokens through its OAuth flow
// (https://docs.pcloud.com/methods/oauth_2.0/), so the token is pasted in
// rather than obtained via a local browser dance.
func newLoginCmd() *cobra.Command {
	var flagToken string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an OAuth access token",
		Long: `Verify an OAuth access token against the API and store it for later
commands. The token must have been issued by the selected host's region;
pass --host https://eapi.pcloud.com for EU accounts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token := flagToken
			if token == "" {
				token = os.Getenv("PCLOUD_TOKEN")
			}

			if token == "" {
				return fmt.Errorf("provide the token via --token or PCLOUD_TOKEN")
			}

			c, err := pcloud.NewWithOAuth(resolvedCfg.Host, token,
				pcloud.WithLogger(buildLogger()),
				pcloud.WithHTTPClient(defaultHTTPClient()))
			if err != nil {
				return err
			}

			ui, err := c.GetUserInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("verifying token: %w", err)
			}

			tokenPath, err := config.TokenPath()
			if err != nil {
				return err
			}

			err = tokenfile.Save(tokenPath, &tokenfile.File{
				Token: &oauth2.Token{AccessToken: token, TokenType: "bearer"},
				Host:  resolvedCfg.Host,
				Email: ui.Email,
			})
			if err != nil {
				return err
			}

			statusf("Logged in as %s (%s)\n", ui.Email, resolvedCfg.Host)

			return nil
		},
	}

	cmd.Flags().StringVar(&flagToken, "token", "", "OAuth access token")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored OAuth token",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			tokenPath, err := config.TokenPath()
			if err != nil {
				return err
			}

			if err := tokenfile.Remove(tokenPath); err != nil {
				return err
			}

			statusf("Logged out\n")

			return nil
		},
	}
}
