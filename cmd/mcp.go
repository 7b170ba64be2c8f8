package cmd

import (
	"distlint/pkg/mcp"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve detection and checking over the Model Context Protocol",
	Long: `MCP runs a Model Context Protocol server on stdio exposing the
distlint_detect and distlint_check tools, so coding agents can run
compatibility checks without shelling out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mcp.NewServer(Version)
		srv.Env = browserslistEnv()
		return srv.Run(cmd.Context())
	},
}
