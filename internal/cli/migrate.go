package cli

import (
	"fmt"
	"log"

	"storefront/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}()

		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s database\n", cfg.Database.Driver)
		return nil
	},
}
