package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server exposes tools to read today's chores, add, complete and postpone
chores, and query statistics. It communicates over stdio.`,
	Annotations: map[string]string{daemonAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return fmt.Errorf("the MCP server is disabled (mcp.enabled = false)")
		}

		// stdout carries the protocol
		fmt.Fprintln(cmd.ErrOrStderr(), "🚀 Starting MCP server on stdio. Press Ctrl+C to stop.")

		ctx, stop := setupSignalHandler(cmd.Context())
		defer stop()

		server := mcp.NewServer(app.state, Version)
		defer server.Stop()
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
