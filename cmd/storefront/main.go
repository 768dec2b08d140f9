// Package main is the entry point for the storefront CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Storefront: terminal shop with a persistent cart",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShop(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "path to storefront.toml (default: search upward from the working directory)")
	root.PersistentFlags().Bool("ephemeral", false, "keep the session in memory only")

	root.AddCommand(
		shopCmd(),
		catalogCmd(),
		cartCmd(),
		loginCmd(),
		registerCmd(),
		logoutCmd(),
		statusCmd(),
		historyCmd(),
		initCmd(),
		serveCartCmd(),
	)

	return root
}
