package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/mailtm-mcp/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var address string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing mailbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				saved, err := app.service.SavedPassword(cmd.Context(), address)
				if err != nil {
					if errors.Is(err, domain.ErrSecretNotFound) {
						return fmt.Errorf("no saved password for %s; pass --password", address)
					}
					return fmt.Errorf("read saved password: %w", err)
				}
				password = saved
			}

			session, err := app.service.Login(cmd.Context(), address, password)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					return errors.New("login failed: invalid address or password")
				}
				return fmt.Errorf("login: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s. Session active.\n", session.Address)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "The email address")
	cmd.Flags().StringVar(&password, "password", "", "The account password; empty reuses the password saved when the mailbox was created")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the active session without deleting the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			address := app.service.Logout(cmd.Context())
			if address == "" {
				address = "unknown"
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged out. Session for '%s' cleared.\n", address)
			return nil
		},
	}
}
