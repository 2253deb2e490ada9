package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/beeper/ai-pptx/pkg/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pptx_read tool over MCP on stdin/stdout",
	Long: `Start an MCP server speaking JSON-RPC on stdin/stdout.

Point an MCP client at this command, e.g.:
  ai-pptx serve --workspace ~/decks`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		server := mcpserver.New(rt.executor, &mcp.Implementation{
			Name:    cfg.Server.Name,
			Version: Tag,
		})
		zerolog.Ctx(ctx).Info().
			Str("workspace", rt.policy.WorkspaceDir()).
			Msg("Serving MCP on stdio")
		return mcpserver.Serve(ctx, server)
	},
}
