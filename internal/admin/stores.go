package admin

import (
	"context"

	"github.com/BradenHooton/searchdesk/internal/models"
)

// UserStore is the subset of UserRepository the user view needs
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.User, error)
	Count(ctx context.Context, filter models.ListFilter) (int64, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// SearchFieldStore is the subset of SearchFieldRepository the admin needs
type SearchFieldStore interface {
	GetByID(ctx context.Context, id string) (*models.SearchField, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.SearchField, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.SearchField, error)
	Count(ctx context.Context, filter models.ListFilter) (int64, error)
	Create(ctx context.Context, field *models.SearchField) (*models.SearchField, error)
	Update(ctx context.Context, id string, field *models.SearchField) (*models.SearchField, error)
	Delete(ctx context.Context, id string) error
}

// SearchTypeStore is the subset of SearchTypeRepository the admin needs
type SearchTypeStore interface {
	GetByID(ctx context.Context, id string) (*models.SearchType, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.SearchType, error)
	Count(ctx context.Context, filter models.ListFilter) (int64, error)
	Create(ctx context.Context, st *models.SearchType) (*models.SearchType, error)
	Update(ctx context.Context, id string, st *models.SearchType) (*models.SearchType, error)
	Delete(ctx context.Context, id string) error
}
