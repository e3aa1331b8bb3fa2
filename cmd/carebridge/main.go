// Package main is the entrypoint for the carebridge CLI.
package main

import (
	"os"

	"github.com/carebridge/carebridge/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	rootCmd.AddCommand(cmd.NewMigrateCommand())
	rootCmd.AddCommand(cmd.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
