package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/BradenHooton/searchdesk/internal/models"
	pkgauth "github.com/BradenHooton/searchdesk/pkg/auth"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	GetByLoginFunc func(ctx context.Context, login string) (*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(ctx, login)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

// MockSearchTypeRepository implements CatalogSearchTypeRepository for testing
type MockSearchTypeRepository struct {
	AllFunc func(ctx context.Context) ([]*models.SearchType, error)
}

func (m *MockSearchTypeRepository) All(ctx context.Context) ([]*models.SearchType, error) {
	if m.AllFunc != nil {
		return m.AllFunc(ctx)
	}
	return []*models.SearchType{}, nil
}

// MockSearchFieldRepository implements CatalogSearchFieldRepository for testing
type MockSearchFieldRepository struct {
	GetByIDsFunc func(ctx context.Context, ids []string) ([]*models.SearchField, error)
}

func (m *MockSearchFieldRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.SearchField, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return []*models.SearchField{}, nil
}

// MockProductRepository implements CatalogProductRepository for testing
type MockProductRepository struct {
	ListFunc              func(ctx context.Context, filter models.ListFilter) ([]*models.Product, error)
	CountBySearchTypeFunc func(ctx context.Context) (map[string]int64, error)
}

func (m *MockProductRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Product{}, nil
}

func (m *MockProductRepository) CountBySearchType(ctx context.Context) (map[string]int64, error) {
	if m.CountBySearchTypeFunc != nil {
		return m.CountBySearchTypeFunc(ctx)
	}
	return map[string]int64{}, nil
}

// NewTestUser creates a user whose password hash matches password
func NewTestUser(id, login, password string) *models.User {
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return &models.User{ID: id, Login: login, PasswordHash: hash}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
