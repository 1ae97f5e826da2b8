package cli

import (
	"context"
	"fmt"
	"log"

	"storefront/internal/apperr"
	"storefront/internal/authz"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/spf13/cobra"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create an administrator account. The API only lets an existing admin
grant the admin role, so the first one is created here.

Example:
  storefront create-admin --name Ops --email ops@example.com --password s3cret!`,
	Args: cobra.NoArgs,
	RunE: runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "login email (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "login password, at least 6 characters (required)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
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

	users := services.NewUserService(repositories.NewGORMUserRepository(db), cfg.BcryptCost)
	operator := authz.Principal{Role: models.RoleAdmin}
	user, err := users.Create(context.Background(), operator, services.CreateUserInput{
		Name:     adminName,
		Email:    adminEmail,
		Password: adminPassword,
		Role:     string(models.RoleAdmin),
	})
	if verr, ok := apperr.AsValidation(err); ok {
		for _, field := range verr.Fields() {
			for _, msg := range verr.Errors[field] {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
			}
		}
		return fmt.Errorf("invalid admin account: %w", err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d)\n", user.Email, user.ID)
	return nil
}
