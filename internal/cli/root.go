// Package cli implements the spyglass command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute runs the CLI. Running spyglass with no subcommand starts the
// server.
func Execute(version string) error {
	rootCmd := &cobra.Command{
		Use:   "spyglass",
		Short: "Block explorer companion for a local development node",
		Long: `Spyglass sits next to a local EVM development node. It proxies the node's
JSON-RPC endpoint, serves a block explorer webapp, and correlates contract
deployments with the project's compiled artifacts so the explorer can show
names, ABIs and sources instead of raw bytecode.

Point your tooling at spyglass instead of the node:

  spyglass serve
  export ETH_RPC_URL=http://127.0.0.1:9545`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(version)
		},
	}

	rootCmd.AddCommand(newServeCmd(version))
	rootCmd.AddCommand(newArtifactsCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd.Execute()
}
