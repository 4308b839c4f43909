package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fixwell/mrt/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server (stdio)",
	Long: "Start an MCP server on stdio exposing maintenance-request tools\n" +
		"(mrt_submit_request, mrt_list_requests, mrt_analytics) to AI agents.",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := getService()
		if err != nil {
			return err
		}

		srv := mcp.NewServer(svc)
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
