package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/mailtm-mcp/internal/adapters/render/inbox"
	"github.com/bnema/mailtm-mcp/internal/domain"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Inspect and manage the current account",
	}

	cmd.AddCommand(
		newAccountInfoCmd(app),
		newAccountListCmd(app),
		newAccountDeleteCmd(app),
	)

	return cmd
}

func newAccountInfoCmd(app *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show address, quota and storage usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.service.GetAccountInfo(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrNoSession) {
					return errors.New("no active session; run `mailtm create` or `mailtm login` first")
				}
				return err
			}

			out := cmd.OutOrStdout()
			if plain {
				_, _ = fmt.Fprintf(out, "Address: %s\n", info.Address)
				_, _ = fmt.Fprintf(out, "ID:      %s\n", info.ID)
				_, _ = fmt.Fprintf(out, "Quota:   %d / %d bytes (%.1f%%)\n", info.Used, info.Quota, info.UsedPercent())
				_, _ = fmt.Fprintf(out, "Created: %s\n", info.CreatedAt)
				return nil
			}

			_, _ = fmt.Fprintln(out, inbox.RenderAccount(info, app.sessions.Current(cmd.Context())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "plain output without styling")

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List mailboxes known to this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			boxes, err := app.service.ListMailboxes(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(boxes) == 0 {
				_, _ = fmt.Fprintln(out, "No mailboxes recorded yet.")
				return nil
			}

			active := app.sessions.Current(cmd.Context()).Address
			for _, box := range boxes {
				marker := " "
				if box.Address == active {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, "%s %s\t(created %s)\n", marker, box.Address, box.CreatedAt.Format("2006-01-02"))
			}

			return nil
		},
	}
}

func newAccountDeleteCmd(app *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete the current account",
		RunE: func(cmd *cobra.Command, args []string) error {
			current := app.sessions.Current(cmd.Context()).Address
			if current == "" {
				return errors.New("no active session; nothing to delete")
			}
			if !yes {
				return fmt.Errorf("this permanently deletes %s; re-run with --yes to confirm", current)
			}

			address, err := app.service.DeleteAccount(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrNoSession) {
					return errors.New("no active session; nothing to delete")
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Account %s deleted.\n", address)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm permanent deletion")

	return cmd
}
