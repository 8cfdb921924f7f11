package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/searchdesk/internal/forms"
	"github.com/BradenHooton/searchdesk/internal/models"
	pkgauth "github.com/BradenHooton/searchdesk/pkg/auth"
	pkglogger "github.com/BradenHooton/searchdesk/pkg/logger"
)

// UserRepository defines the user lookups the auth flows need
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// AuthService handles login and registration business logic
type AuthService struct {
	repo        UserRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	env         string
}

// NewAuthService creates a new AuthService
func NewAuthService(repo UserRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger, env string) *AuthService {
	return &AuthService{
		repo:        repo,
		logger:      logger,
		auditLogger: auditLogger,
		env:         env,
	}
}

// LoadUser resolves a session subject into its user
func (s *AuthService) LoadUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Authenticate validates a submitted login form. Field problems are recorded on
// the form and returned as models.ValidationErrors; any other error is internal.
func (s *AuthService) Authenticate(ctx context.Context, form *forms.LoginForm, ipAddress string) (*models.User, error) {
	if !form.Validate() {
		return nil, form.Errors
	}

	user, err := s.repo.GetByLogin(ctx, form.Login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: unknown user")
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     pkglogger.EventLoginFailed,
				IPAddress:     ipAddress,
				FailureReason: "invalid_user",
			})
			form.AddError("login", models.MsgInvalidUser)
			return nil, form.Errors
		}
		s.logger.Error("failed to get user by login", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, form.Password); err != nil {
		s.logger.Info("login failed: invalid password", slog.String("user_id", user.ID))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     pkglogger.EventLoginFailed,
			UserID:        user.ID,
			IPAddress:     ipAddress,
			FailureReason: "invalid_password",
		})
		form.AddError("login", models.MsgInvalidPassword)
		return nil, form.Errors
	}

	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		pkglogger.RedactedAttr("login", user.Login, s.env))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventLogin,
		UserID:    user.ID,
		IPAddress: ipAddress,
		Success:   true,
	})

	return user, nil
}

// Register validates a registration form and creates the account
func (s *AuthService) Register(ctx context.Context, form *forms.RegistrationForm, ipAddress string) (*models.User, error) {
	if !form.Validate() {
		return nil, form.Errors
	}

	_, err := s.repo.GetByLogin(ctx, form.Login)
	switch {
	case err == nil:
		form.AddError("login", models.MsgDuplicateUsername)
		return nil, form.Errors
	case !errors.Is(err, models.ErrNotFound):
		s.logger.Error("failed to check login availability", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hash, err := pkgauth.HashPassword(form.Password)
	if err != nil {
		if errors.Is(err, pkgauth.ErrPasswordTooLong) {
			form.AddError("password", models.MsgPasswordTooLong)
			return nil, form.Errors
		}
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user, err := s.repo.Create(ctx, &models.User{
		Login:        form.Login,
		Email:        form.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			form.AddError("login", models.MsgDuplicateUsername)
			return nil, form.Errors
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	attrs := []any{slog.String("user_id", user.ID)}
	if user.Email != "" {
		attrs = append(attrs, slog.String("email", pkglogger.SanitizedEmail(user.Email)))
	}
	s.logger.Info("user registered", attrs...)
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventRegister,
		UserID:    user.ID,
		IPAddress: ipAddress,
		Success:   true,
	})

	return user, nil
}

// Logout records the end of a session
func (s *AuthService) Logout(user models.CurrentUser, ipAddress string) {
	if !user.IsAuthenticated() {
		return
	}
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventLogout,
		UserID:    user.GetID(),
		IPAddress: ipAddress,
		Success:   true,
	})
}
