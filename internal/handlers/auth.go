package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/searchdesk/internal/auth"
	"github.com/BradenHooton/searchdesk/internal/forms"
	"github.com/BradenHooton/searchdesk/internal/models"
	"github.com/BradenHooton/searchdesk/internal/render"
	pkghttp "github.com/BradenHooton/searchdesk/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Authenticate(ctx context.Context, form *forms.LoginForm, ipAddress string) (*models.User, error)
	Register(ctx context.Context, form *forms.RegistrationForm, ipAddress string) (*models.User, error)
	Logout(user models.CurrentUser, ipAddress string)
}

// SessionStore binds and unbinds the user of a client
type SessionStore interface {
	Login(w http.ResponseWriter, user *models.User) error
	Logout(w http.ResponseWriter)
}

// AuthHandler serves the login, registration and logout pages
type AuthHandler struct {
	service  AuthServiceInterface
	sessions SessionStore
	renderer *render.Renderer
	ips      *pkghttp.IPResolver
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, sessions SessionStore, renderer *render.Renderer, ips *pkghttp.IPResolver, logger *slog.Logger) *AuthHandler {
	if ips == nil {
		ips = pkghttp.NewIPResolver(nil)
	}
	return &AuthHandler{
		service:  service,
		sessions: sessions,
		renderer: renderer,
		ips:      ips,
		logger:   logger,
	}
}

// formPage is the data of form.html
type formPage struct {
	Action    string
	Submit    string
	Fields    []forms.Field
	Alternate *render.MenuItem
}

// Login handles GET and POST /login/
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := &forms.LoginForm{}

	if r.Method == http.MethodPost {
		var err error
		if form, err = forms.DecodeLoginForm(r); err != nil {
			h.renderer.Error(w, r, http.StatusBadRequest, "Malformed form submission.")
			return
		}

		user, err := h.service.Authenticate(r.Context(), form, h.ips.ClientIP(r))
		if err == nil {
			h.startSession(w, r, user)
			return
		}
		if !isValidationError(err) {
			h.renderer.Error(w, r, http.StatusInternalServerError, "")
			return
		}
	}

	h.renderer.HTML(w, r, http.StatusOK, "form.html", render.Page{
		Title: "Login",
		Data: formPage{
			Action:    "/login/",
			Submit:    "Login",
			Fields:    form.Fields(),
			Alternate: &render.MenuItem{Label: "Create an account", URL: "/register/"},
		},
	})
}

// Register handles GET and POST /register/
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := &forms.RegistrationForm{}

	if r.Method == http.MethodPost {
		var err error
		if form, err = forms.DecodeRegistrationForm(r); err != nil {
			h.renderer.Error(w, r, http.StatusBadRequest, "Malformed form submission.")
			return
		}

		user, err := h.service.Register(r.Context(), form, h.ips.ClientIP(r))
		if err == nil {
			h.startSession(w, r, user)
			return
		}
		if !isValidationError(err) {
			h.renderer.Error(w, r, http.StatusInternalServerError, "")
			return
		}
	}

	h.renderer.HTML(w, r, http.StatusOK, "form.html", render.Page{
		Title: "Register",
		Data: formPage{
			Action:    "/register/",
			Submit:    "Register",
			Fields:    form.Fields(),
			Alternate: &render.MenuItem{Label: "Already registered? Log in", URL: "/login/"},
		},
	})
}

// Logout handles GET /logout/
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(auth.CurrentUser(r.Context()), h.ips.ClientIP(r))
	h.sessions.Logout(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	if err := h.sessions.Login(w, user); err != nil {
		h.logger.Error("failed to start session", slog.String("user_id", user.ID), slog.Any("error", err))
		h.renderer.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func isValidationError(err error) bool {
	var ve models.ValidationErrors
	return errors.As(err, &ve)
}
