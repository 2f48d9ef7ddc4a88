package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mailtm",
		Short:         "mailtm: disposable mail.tm mailboxes from the terminal or over MCP",
		Long:          "mailtm creates and manages temporary mail.tm email accounts. Use it directly from the terminal, or run `mailtm serve` to expose the same operations as MCP tools over stdio.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newDomainsCmd(app),
		newCreateCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newInboxCmd(app),
		newMessageCmd(app),
		newAccountCmd(app),
	)

	return rootCmd
}
