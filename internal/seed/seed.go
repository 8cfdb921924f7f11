package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/searchdesk/internal/models"
	pkgauth "github.com/BradenHooton/searchdesk/pkg/auth"
	"github.com/shopspring/decimal"
)

type UserStore interface {
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

type SearchFieldStore interface {
	GetByName(ctx context.Context, name string) (*models.SearchField, error)
	Create(ctx context.Context, field *models.SearchField) (*models.SearchField, error)
}

type SearchTypeStore interface {
	Create(ctx context.Context, st *models.SearchType) (*models.SearchType, error)
}

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
}

// Catalog groups the stores the demo catalog is written to
type Catalog struct {
	Fields   SearchFieldStore
	Types    SearchTypeStore
	Products ProductStore
}

// EnsureAdmin creates a user with login and password unless one already exists.
// It reports whether a user was created.
func EnsureAdmin(ctx context.Context, users UserStore, login, password string, logger *slog.Logger) (bool, error) {
	if login == "" || password == "" {
		return false, errors.New("admin login and password are required")
	}

	_, err := users.GetByLogin(ctx, login)
	if err == nil {
		logger.Info("admin user already exists", slog.String("login", login))
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, fmt.Errorf("failed to check if admin exists: %w", err)
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	if _, err := users.Create(ctx, &models.User{Login: login, PasswordHash: hash}); err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created", slog.String("login", login))
	return true, nil
}

type demoField struct{ name, label string }

var demoFields = []demoField{
	{"first_name", "First name"},
	{"last_name", "Last name"},
	{"date_of_birth", "Date of birth"},
	{"state", "State"},
	{"license_number", "License number"},
}

// DemoCatalog writes a small set of search fields, search types and products.
// A catalog whose first demo field already exists is left alone.
func DemoCatalog(ctx context.Context, c Catalog, logger *slog.Logger) error {
	if _, err := c.Fields.GetByName(ctx, demoFields[0].name); err == nil {
		logger.Info("demo catalog already present")
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check demo catalog: %w", err)
	}

	ids := make(map[string]string, len(demoFields))
	for _, f := range demoFields {
		created, err := c.Fields.Create(ctx, &models.SearchField{Name: f.name, Label: f.label})
		if err != nil {
			return fmt.Errorf("failed to create search field %s: %w", f.name, err)
		}
		ids[f.name] = created.ID
	}

	people, err := c.Types.Create(ctx, &models.SearchType{
		Source:         models.SourceDatabase,
		Label:          "People search",
		Endpoint:       "/search/people",
		RequiredFields: []string{ids["last_name"]},
		OptionalFields: []string{ids["first_name"], ids["date_of_birth"], ids["state"]},
	})
	if err != nil {
		return fmt.Errorf("failed to create search type: %w", err)
	}

	licenses, err := c.Types.Create(ctx, &models.SearchType{
		Source:         models.SourceExternal,
		Label:          "Driver license check",
		Endpoint:       "/search/licenses",
		RequiredFields: []string{ids["license_number"], ids["state"]},
	})
	if err != nil {
		return fmt.Errorf("failed to create search type: %w", err)
	}

	products := []*models.Product{
		{
			Active:      true,
			Name:        "Basic people search",
			Price:       decimal.RequireFromString("4.99"),
			SearchTypes: []string{people.ID},
			Params:      []string{ids["last_name"], ids["first_name"]},
		},
		{
			Active:      false,
			Name:        "Full background bundle",
			Price:       decimal.RequireFromString("29.50"),
			SearchTypes: []string{people.ID, licenses.ID},
			Params:      []string{ids["last_name"], ids["license_number"], ids["state"]},
		},
	}
	for _, p := range products {
		if _, err := c.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to create product %s: %w", p.Name, err)
		}
	}

	logger.Info("demo catalog created",
		slog.Int("search_fields", len(demoFields)),
		slog.Int("search_types", 2),
		slog.Int("products", len(products)))
	return nil
}
