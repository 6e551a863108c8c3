package cmd

import (
	"github.com/hycu-tools/check-hycu/core"
	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/internal/hycu"
	"github.com/hycu-tools/check-hycu/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the check-hycu MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents run HYCU checks.
Host, token and timeout come from the usual flags, environment and config file.`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Logs stay on stderr; stdio carries the protocol.
		return loadInput()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, *input, openClient, core.NewTCPProber(), version)
	},
}

// openClient opens the production controller client for one check.
func openClient(cfg *contract.Config) (contract.Source, error) {
	client, err := hycu.NewClient(hycu.ConfigFrom(cfg))
	if err != nil {
		return nil, err
	}
	return client, nil
}
