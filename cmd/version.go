package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/carebridge/carebridge/internal/build"
)

// NewVersionCommand returns a command that prints build information.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Reports the version of the carebridge binary",
		Run: func(cmd *cobra.Command, args []string) {
			log.Printf("carebridge version `%s` build from `%s` on `%s`", build.Version, build.Commit, build.Date)
		},
		Args: cobra.NoArgs,
	}
}
