// Package cli implements the storefront command line: the HTTP server and
// its maintenance commands.
package cli

import (
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	configFile string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "storefront",
		Short: "Storefront - commerce API server",
		Long: `Storefront serves the JSON commerce API: accounts, the product catalog
and order placement.

Settings come from the environment, an optional .env file and an optional
config file given with --config.`,
		RunE:          runServe, // Default action is serve
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json, toml or env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// openDatabase loads the configuration and opens the database it names.
func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
