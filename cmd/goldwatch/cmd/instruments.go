package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/goldwatch/market"
)

var instrumentsCmd = &cobra.Command{
	Use:   "instruments",
	Short: "List the instrument catalog",
	Run: func(cmd *cobra.Command, args []string) {
		for _, code := range market.Codes() {
			fmt.Printf("%-14s %s\n", code, market.Name(code))
		}
	},
}

func init() {
	rootCmd.AddCommand(instrumentsCmd)
}
