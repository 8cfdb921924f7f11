package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/searchdesk/internal/models"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing the current user in context
	UserContextKey contextKey = "user"
)

// UserLoader fetches the user a session refers to
type UserLoader interface {
	LoadUser(ctx context.Context, id string) (*models.User, error)
}

// UserLoaderFunc adapts a function to UserLoader
type UserLoaderFunc func(ctx context.Context, id string) (*models.User, error)

func (f UserLoaderFunc) LoadUser(ctx context.Context, id string) (*models.User, error) {
	return f(ctx, id)
}

// LoadCurrentUser resolves the session cookie into the current user and stores it
// in the request context. Anything short of a valid session for an existing user
// leaves the request anonymous.
func LoadCurrentUser(sessions *SessionManager, loader UserLoader, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var current models.CurrentUser = models.AnonymousUser

			userID, err := sessions.Resolve(r)
			if err == nil {
				user, err := loader.LoadUser(r.Context(), userID)
				switch {
				case err == nil && user != nil:
					current = user
				case err == nil, errors.Is(err, models.ErrNotFound):
				default:
					logger.Error("failed to load session user", slog.String("user_id", userID), slog.Any("error", err))
				}
			} else if !errors.Is(err, ErrNoSession) {
				logger.Debug("discarding invalid session", slog.Any("error", err))
			}

			next.ServeHTTP(w, r.WithContext(WithCurrentUser(r.Context(), current)))
		})
	}
}

// RequireAuthenticated redirects anonymous requests to loginPath
func RequireAuthenticated(loginPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !CurrentUser(r.Context()).IsAuthenticated() {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithCurrentUser returns a copy of ctx carrying user
func WithCurrentUser(ctx context.Context, user models.CurrentUser) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// CurrentUser returns the user bound to ctx, or the anonymous user
func CurrentUser(ctx context.Context) models.CurrentUser {
	user, ok := ctx.Value(UserContextKey).(models.CurrentUser)
	if !ok || user == nil {
		return models.AnonymousUser
	}
	return user
}
