package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/mailtm-mcp/internal/mcpserver"
	"github.com/bnema/mailtm-mcp/internal/version"
)

func newServeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the mailbox tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.sessions.Load(cmd.Context())
			if session := app.sessions.Current(cmd.Context()); session.Active() {
				app.logger.Info("restored session", "address", session.Address)
			}

			server := mcpserver.New(app.service, version.Version, mcpserver.WithLogger(app.logger))
			app.logger.Info("starting mail.tm MCP server")

			return server.Run(cmd.Context())
		},
	}
}
