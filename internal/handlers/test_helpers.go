package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/searchdesk/internal/forms"
	"github.com/BradenHooton/searchdesk/internal/models"
)

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	AuthenticateFunc func(ctx context.Context, form *forms.LoginForm, ipAddress string) (*models.User, error)
	RegisterFunc     func(ctx context.Context, form *forms.RegistrationForm, ipAddress string) (*models.User, error)
	LogoutFunc       func(user models.CurrentUser, ipAddress string)
}

func (m *MockAuthService) Authenticate(ctx context.Context, form *forms.LoginForm, ipAddress string) (*models.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, form, ipAddress)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Register(ctx context.Context, form *forms.RegistrationForm, ipAddress string) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, form, ipAddress)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Logout(user models.CurrentUser, ipAddress string) {
	if m.LogoutFunc != nil {
		m.LogoutFunc(user, ipAddress)
	}
}

// MockSessionStore implements SessionStore for testing
type MockSessionStore struct {
	LoginFunc  func(w http.ResponseWriter, user *models.User) error
	LogoutFunc func(w http.ResponseWriter)
}

func (m *MockSessionStore) Login(w http.ResponseWriter, user *models.User) error {
	if m.LoginFunc != nil {
		return m.LoginFunc(w, user)
	}
	return nil
}

func (m *MockSessionStore) Logout(w http.ResponseWriter) {
	if m.LogoutFunc != nil {
		m.LogoutFunc(w)
	}
}
