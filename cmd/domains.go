package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDomainsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List domains available for new mailboxes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			domains, err := app.service.ListDomains(cmd.Context())
			if err != nil {
				return fmt.Errorf("list domains: %w", err)
			}

			if len(domains) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No domains available at the moment.")
				return nil
			}

			for _, domain := range domains {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), domain)
			}

			return nil
		},
	}
}
