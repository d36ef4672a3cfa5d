package main

import (
	"os"

	"github.com/rustyeddy/goldwatch/cmd/goldwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
