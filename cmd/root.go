// Package cmd contains the carebridge CLI commands.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/carebridge/carebridge/internal/build"
)

// NewRootCommand returns the root cobra command for the carebridge CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "carebridge",
		Short:   "Patient to caregiver data-sharing grant service",
		Long:    "Manages the lifecycle of data-sharing grants between patients and caregivers.",
		Version: build.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
			viper.SetEnvPrefix("CAREBRIDGE")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
			viper.AutomaticEnv()

			viper.AddConfigPath("/etc/carebridge")
			viper.AddConfigPath("$HOME/.carebridge")
			viper.AddConfigPath(".")

			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					return err
				}
			}

			return nil
		},
	}

	return cmd
}
