package main

import (
	"os"

	"github.com/spf13/cobra"

	"lucerna/internal/interfaces/cli/migrate"
	"lucerna/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lucerna",
		Short: "Lucerna - VPN panel user portal",
		Long:  `Lucerna serves the VPN panel user portal: magic-link sign-in, subscription profiles, and lifecycle notifications.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
