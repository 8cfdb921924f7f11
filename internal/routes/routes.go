package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/searchdesk/internal/admin"
	"github.com/BradenHooton/searchdesk/internal/auth"
	"github.com/BradenHooton/searchdesk/internal/handlers"
	custommw "github.com/BradenHooton/searchdesk/internal/middleware"
	pkghttp "github.com/BradenHooton/searchdesk/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AdminPath is where the admin site is mounted
const AdminPath = "/admin"

// Dependencies are the wired components the router dispatches to
type Dependencies struct {
	Env       string
	Logger    *slog.Logger
	IPs       *pkghttp.IPResolver
	Sessions  *auth.SessionManager
	Users     auth.UserLoader
	Home      *handlers.HomeHandler
	Auth      *handlers.AuthHandler
	Health    http.HandlerFunc
	Admin     *admin.Admin
	RateLimit custommw.RateLimitConfig
	Metrics   *custommw.HTTPMetrics
	// MetricsHandler serves /metrics; nil uses the default Prometheus registry
	MetricsHandler http.Handler
}

// NewRouter builds the root router with the shared middleware chain and every route
func NewRouter(deps Dependencies) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(custommw.SecurityHeaders(custommw.SecurityHeadersConfig{Env: deps.Env}))
	router.Use(custommw.RequestLogger(deps.Logger, deps.IPs))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Metrics)
	}
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	RegisterRoutes(router, deps)
	return router
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, deps Dependencies) {
	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	// Operational endpoints skip session resolution
	router.Get("/health", deps.Health)
	router.Handle("/metrics", metricsHandler)

	router.Group(func(r chi.Router) {
		r.Use(auth.LoadCurrentUser(deps.Sessions, deps.Users, deps.Logger))

		limited := custommw.RateLimitByIP(deps.RateLimit, deps.IPs)

		r.NotFound(deps.Home.NotFound)

		r.Get("/", deps.Home.Index)
		r.Get("/login/", deps.Auth.Login)
		r.With(limited).Post("/login/", deps.Auth.Login)
		r.Get("/register/", deps.Auth.Register)
		r.With(limited).Post("/register/", deps.Auth.Register)
		r.Get("/logout/", deps.Auth.Logout)

		r.Mount(AdminPath, deps.Admin.Routes())
	})
}
