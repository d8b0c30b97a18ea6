package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joescharf/claudelog/internal/analyzer"
	"github.com/joescharf/claudelog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve session data over MCP stdio",
	Long: `Expose logged sessions and methodology analysis as read-only MCP
tools so an assistant can query its own session history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func mcpRun(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	srv := mcp.NewServer(s, analyzer.New(nil))
	return srv.ServeStdio(ctx)
}
