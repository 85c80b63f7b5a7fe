// Package main is the entry point for the journey console game
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-journey/internal/config"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "journey",
		Short:         "RPG Journey",
		Long:          `RPG Journey is a turn-based combat and encounter game played in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "path to a YAML config file")
	config.BindFlags(root.PersistentFlags())

	root.AddCommand(newPlayCmd())
	root.AddCommand(newBestiaryCmd())
	root.AddCommand(newRepairCmd())
	return root
}

// loadConfig reads the config named by --config, layered under the flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path, cmd.Flags())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
