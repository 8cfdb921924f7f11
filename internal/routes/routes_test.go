package routes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/searchdesk/internal/admin"
	"github.com/BradenHooton/searchdesk/internal/auth"
	"github.com/BradenHooton/searchdesk/internal/forms"
	"github.com/BradenHooton/searchdesk/internal/handlers"
	custommw "github.com/BradenHooton/searchdesk/internal/middleware"
	"github.com/BradenHooton/searchdesk/internal/models"
	"github.com/BradenHooton/searchdesk/internal/render"
	pkghttp "github.com/BradenHooton/searchdesk/pkg/http"
	pkglogger "github.com/BradenHooton/searchdesk/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "routes-test-secret-32-characters"

var alice = &models.User{ID: "6f1c1d9e-4a43-4c1b-9a55-8f0a1b2c3d4e", Login: "alice"}

type healthFunc func(ctx context.Context) error

func (f healthFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

type testApp struct {
	router   http.Handler
	sessions *auth.SessionManager
}

func newTestApp(t *testing.T, rateLimit int) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := render.New(logger)
	require.NoError(t, err)

	ips := pkghttp.NewIPResolver(nil)
	sessions := auth.NewSessionManager(testSecret, time.Hour, auth.CookieConfig{SameSite: "lax"})
	users := auth.UserLoaderFunc(func(ctx context.Context, id string) (*models.User, error) {
		if id == alice.ID {
			return alice, nil
		}
		return nil, models.ErrNotFound
	})

	authService := &handlers.MockAuthService{
		AuthenticateFunc: func(ctx context.Context, form *forms.LoginForm, ip string) (*models.User, error) {
			return alice, nil
		},
	}

	registry := prometheus.NewRegistry()
	deps := Dependencies{
		Env:            "development",
		Logger:         logger,
		IPs:            ips,
		Sessions:       sessions,
		Users:          users,
		Home:           handlers.NewHomeHandler(renderer),
		Auth:           handlers.NewAuthHandler(authService, sessions, renderer, ips, logger),
		Health:         handlers.Health(healthFunc(func(ctx context.Context) error { return errors.New("down") })),
		Admin:          admin.New(admin.Options{Path: AdminPath}, renderer, logger, pkglogger.NewAuditLogger(logger), ips),
		RateLimit:      custommw.RateLimitConfig{RequestsPerMinute: rateLimit},
		Metrics:        custommw.NewHTTPMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	return &testApp{router: NewRouter(deps), sessions: sessions}
}

func (app *testApp) sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, app.sessions.Login(rec, alice))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func (app *testApp) get(target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) post(target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "198.51.100.9:1234"
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func TestHome_Anonymous(t *testing.T) {
	app := newTestApp(t, 10)

	rec := app.get("/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You are not logged in")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestHome_WithSession(t *testing.T) {
	app := newTestApp(t, 10)

	rec := app.get("/", app.sessionCookie(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged in as <strong>alice</strong>")
}

func TestAdmin_RequiresLogin(t *testing.T) {
	app := newTestApp(t, 10)

	rec := app.get("/admin/", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login/", rec.Header().Get("Location"))
}

func TestAdmin_AuthenticatedIndex(t *testing.T) {
	app := newTestApp(t, 10)

	rec := app.get("/admin/", app.sessionCookie(t))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdmin_TamperedCookieIsAnonymous(t *testing.T) {
	app := newTestApp(t, 10)
	cookie := app.sessionCookie(t)
	cookie.Value += "x"

	rec := app.get("/admin/", cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestLogin_SuccessRedirectsHome(t *testing.T) {
	app := newTestApp(t, 10)

	rec := app.post("/login/", url.Values{"login": {"alice"}, "password": {"secret"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestLogin_RateLimited(t *testing.T) {
	app := newTestApp(t, 2)
	values := url.Values{"login": {"alice"}, "password": {"secret"}}

	assert.Equal(t, http.StatusSeeOther, app.post("/login/", values).Code)
	assert.Equal(t, http.StatusSeeOther, app.post("/login/", values).Code)

	rec := app.post("/login/", values)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// GET is never limited
	assert.Equal(t, http.StatusOK, app.get("/login/", nil).Code)
}

func TestLogout_ClearsSession(t *testing.T) {
	app := newTestApp(t, 10)

	rec := app.get("/logout/", app.sessionCookie(t))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestNotFound_RendersPage(t *testing.T) {
	app := newTestApp(t, 10)

	rec := app.get("/missing/", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHealth_ReportsDatabase(t *testing.T) {
	app := newTestApp(t, 10)

	rec := app.get("/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}

func TestMetrics_ExposesRequestCounters(t *testing.T) {
	app := newTestApp(t, 10)
	app.get("/", nil)

	rec := app.get("/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `searchdesk_http_requests_total{method="GET",route="/",status="200"} 1`)
}
