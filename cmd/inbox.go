package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	renderinbox "github.com/bnema/mailtm-mcp/internal/adapters/render/inbox"
	"github.com/bnema/mailtm-mcp/internal/domain"
)

func newInboxCmd(app *app) *cobra.Command {
	var page int
	var plain bool

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List messages in the active mailbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var inbox domain.Inbox

			fetch := func(ctx context.Context) error {
				var err error
				inbox, err = app.service.GetInbox(ctx, page)
				return err
			}

			var err error
			if plain {
				err = fetch(cmd.Context())
			} else {
				err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching inbox...", fetch)
			}
			if err != nil {
				if errors.Is(err, domain.ErrNoSession) {
					return errors.New("no active session; run `mailtm create` or `mailtm login` first")
				}
				return fmt.Errorf("fetch inbox: %w", err)
			}

			if plain {
				return writePlainInbox(cmd, inbox)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderinbox.Render(inbox))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (up to 30 messages per page)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Unstyled output without a spinner")

	return cmd
}

func writePlainInbox(cmd *cobra.Command, inbox domain.Inbox) error {
	out := cmd.OutOrStdout()

	if len(inbox.Messages) == 0 {
		_, _ = fmt.Fprintf(out, "Inbox is empty for %s.\n", inbox.Address)
		return nil
	}

	_, _ = fmt.Fprintf(out, "Inbox: %s | %d message(s) total | Page %d\n", inbox.Address, inbox.Total, inbox.Page)
	for _, m := range inbox.Messages {
		status := "UNREAD"
		if m.Seen {
			status = "read"
		}
		subject := m.Subject
		if subject == "" {
			subject = "(no subject)"
		}
		_, _ = fmt.Fprintf(out, "[%s]\t%s\t%s\t%s\n", status, m.ID, m.From, subject)
	}

	return nil
}
