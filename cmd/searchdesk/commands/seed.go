package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BradenHooton/searchdesk/internal/database"
	"github.com/BradenHooton/searchdesk/internal/repositories"
	"github.com/BradenHooton/searchdesk/internal/seed"
	"github.com/spf13/cobra"
)

var (
	// Seed flags
	adminLogin string
	withDemo   bool
)

// seedCmd creates the first admin user and, on request, a demo catalog
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the first admin user and an optional demo catalog",
	Long: `Create the first admin user if it does not exist yet.

The password is read from ADMIN_PASSWORD. With --demo a small set of search
fields, search types and products is written as well.

Examples:
  ADMIN_PASSWORD=... searchdesk seed --login admin
  ADMIN_PASSWORD=... searchdesk seed --demo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			return fmt.Errorf("ADMIN_PASSWORD must be set")
		}

		db, err := database.NewConnection(&cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		ctx := cmd.Context()
		if _, err := seed.EnsureAdmin(ctx, repositories.NewUserRepository(db), adminLogin, password, logger); err != nil {
			return err
		}

		if !withDemo {
			return nil
		}

		catalog := seed.Catalog{
			Fields:   repositories.NewSearchFieldRepository(db),
			Types:    repositories.NewSearchTypeRepository(db),
			Products: repositories.NewProductRepository(db),
		}
		if err := seed.DemoCatalog(ctx, catalog, logger); err != nil {
			logger.Error("failed to seed demo catalog", slog.Any("error", err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&adminLogin, "login", "admin", "Login of the admin user")
	seedCmd.Flags().BoolVar(&withDemo, "demo", false, "Also create a demo catalog")
}
