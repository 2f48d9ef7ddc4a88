package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/mailtm-mcp/internal/domain"
)

func newMessageCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Read, mark and delete messages",
	}

	cmd.AddCommand(
		newMessageReadCmd(app),
		newMessageMarkReadCmd(app),
		newMessageDeleteCmd(app),
	)

	return cmd
}

func newMessageReadCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <message-id>",
		Short: "Print the full content of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := app.service.ReadEmail(cmd.Context(), args[0])
			if err != nil {
				return messageError(err, args[0])
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "From:    %s\n", detail.From)
			_, _ = fmt.Fprintf(out, "To:      %s\n", strings.Join(detail.To, ", "))
			_, _ = fmt.Fprintf(out, "Subject: %s\n", detail.Subject)
			_, _ = fmt.Fprintf(out, "Date:    %s\n", detail.CreatedAt)
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, detail.Body)

			return nil
		},
	}
}

func newMessageMarkReadCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-read <message-id>",
		Short: "Mark a message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service.MarkAsRead(cmd.Context(), args[0]); err != nil {
				return messageError(err, args[0])
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Message %s marked as read.\n", args[0])
			return nil
		},
	}
}

func newMessageDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <message-id>",
		Short: "Delete a message permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service.DeleteEmail(cmd.Context(), args[0]); err != nil {
				return messageError(err, args[0])
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Message %s deleted.\n", args[0])
			return nil
		},
	}
}

func messageError(err error, messageID string) error {
	switch {
	case errors.Is(err, domain.ErrNoSession):
		return errors.New("no active session; run `mailtm create` or `mailtm login` first")
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("message %q not found", messageID)
	}
	return err
}
