package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BradenHooton/searchdesk/internal/config"
	pkglogger "github.com/BradenHooton/searchdesk/pkg/logger"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command. Without a subcommand it serves HTTP.
var rootCmd = &cobra.Command{
	Use:   "searchdesk",
	Short: "Searchdesk - search catalog administration site",
	Long: `Searchdesk serves the search catalog site and its admin interface.

Subcommands:
  serve    - Run the HTTP server (default)
  migrate  - Apply or roll back database migrations
  seed     - Create the first admin user and an optional demo catalog

Configuration is read from the environment and an optional .env file.`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the process logger
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := pkglogger.New(os.Stdout, cfg.Server.LogLevel)
	slog.SetDefault(logger)

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))
	return cfg, logger, nil
}
