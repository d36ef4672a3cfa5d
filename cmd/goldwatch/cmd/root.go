package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "goldwatch",
	Short: "A price synchronization service for precious metals and FX rates",
	Long: `Goldwatch tracks live precious-metal and FX prices from an upstream
websocket feed and keeps subscribers informed.

It provides tools for:
  - Running the live price sync service (stream, cache, history, fan-out)
  - Inspecting the instrument catalog
  - Querying persisted price history
  - Managing subscriptions and portfolio records`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
