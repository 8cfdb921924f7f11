package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/searchdesk/internal/admin"
	"github.com/BradenHooton/searchdesk/internal/auth"
	"github.com/BradenHooton/searchdesk/internal/background"
	"github.com/BradenHooton/searchdesk/internal/config"
	"github.com/BradenHooton/searchdesk/internal/database"
	"github.com/BradenHooton/searchdesk/internal/handlers"
	custommw "github.com/BradenHooton/searchdesk/internal/middleware"
	"github.com/BradenHooton/searchdesk/internal/render"
	"github.com/BradenHooton/searchdesk/internal/repositories"
	"github.com/BradenHooton/searchdesk/internal/routes"
	"github.com/BradenHooton/searchdesk/internal/services"
	pkghttp "github.com/BradenHooton/searchdesk/pkg/http"
	pkglogger "github.com/BradenHooton/searchdesk/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, cfg.Database.URL(), logger); err != nil {
			return err
		}
	}

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	renderer, err := render.New(logger)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	router := newRouter(cfg, db, renderer, logger)

	monitor := background.NewPoolMonitor(db, prometheus.DefaultRegisterer, logger, cfg.Database.StatsInterval)
	go monitor.Start(ctx)
	defer monitor.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}

// newRouter wires repositories, services and handlers into the HTTP router
func newRouter(cfg *config.Config, db *database.DB, renderer *render.Renderer, logger *slog.Logger) http.Handler {
	ips := pkghttp.NewIPResolver(cfg.Server.TrustedProxies)
	auditLogger := pkglogger.NewAuditLogger(logger)

	userRepo := repositories.NewUserRepository(db)
	fieldRepo := repositories.NewSearchFieldRepository(db)
	typeRepo := repositories.NewSearchTypeRepository(db)
	productRepo := repositories.NewProductRepository(db)

	authService := services.NewAuthService(userRepo, logger, auditLogger, cfg.Server.Env)
	catalogService := services.NewCatalogService(typeRepo, fieldRepo, productRepo)

	sessions := auth.NewSessionManager(cfg.Auth.SecretKey, cfg.Auth.SessionTTL, auth.CookieConfig{
		Secure:   cfg.Auth.CookieSecure,
		SameSite: "lax",
	})

	adminSite := admin.New(admin.Options{Name: "Admin", Path: routes.AdminPath, LoginPath: "/login/"},
		renderer, logger, auditLogger, ips)
	adminSite.AddView(admin.NewUserView(userRepo))
	adminSite.AddView(admin.NewSearchFieldView(fieldRepo))
	adminSite.AddView(admin.NewSearchTypeView(typeRepo, fieldRepo))
	adminSite.AddView(admin.NewProductView(catalogService))

	return routes.NewRouter(routes.Dependencies{
		Env:       cfg.Server.Env,
		Logger:    logger,
		IPs:       ips,
		Sessions:  sessions,
		Users:     authService,
		Home:      handlers.NewHomeHandler(renderer),
		Auth:      handlers.NewAuthHandler(authService, sessions, renderer, ips, logger),
		Health:    handlers.Health(db),
		Admin:     adminSite,
		RateLimit: custommw.RateLimitConfig{RequestsPerMinute: cfg.Auth.RateLimit},
		Metrics:   custommw.NewHTTPMetrics(prometheus.DefaultRegisterer),
	})
}
