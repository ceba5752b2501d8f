package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ezpsa-inc/ezpsa/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ezpsa",
		Short: "ezpsa - ticket board dashboard",
		Long:  `ezpsa serves a cached, signed-in view of upstream service boards with quick view, close, create and leaderboard actions.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
