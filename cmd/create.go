package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/mailtm-mcp/internal/domain"
)

func newCreateCmd(app *app) *cobra.Command {
	var address string
	var password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a temporary mailbox and activate its session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := app.service.CreateTempEmail(cmd.Context(), address, password)
			if err != nil {
				if errors.Is(err, domain.ErrAddressTaken) {
					return fmt.Errorf("address %q is already taken or invalid", address)
				}
				return fmt.Errorf("create mailbox: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Address:    %s\n", created.Address)
			_, _ = fmt.Fprintf(out, "Password:   %s\n", created.Password)
			_, _ = fmt.Fprintf(out, "Account ID: %s\n", created.AccountID)
			_, _ = fmt.Fprintln(out, "Session active.")

			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Full address (user@domain); empty picks a random one")
	cmd.Flags().StringVar(&password, "password", "", "Password; empty generates a random one")

	return cmd
}
