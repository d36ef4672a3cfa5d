package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the goldwatch CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("goldwatch version %s\n", version)
		fmt.Println("A price synchronization service for precious metals and FX rates")
		fmt.Println("https://github.com/rustyeddy/goldwatch")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
