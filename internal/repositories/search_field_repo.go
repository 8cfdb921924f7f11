package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/searchdesk/internal/database"
	"github.com/BradenHooton/searchdesk/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const searchFieldColumns = `id::text, name, label, created_at, updated_at`

var searchFieldListSpec = listSpec{
	table:   "search_fields",
	columns: searchFieldColumns,
	searchable: map[string]string{
		"name":  "name",
		"label": "label",
	},
	filterable: map[string]string{
		"name":  "name",
		"label": "label",
	},
	orderBy: "label ASC, name ASC",
}

// SearchFieldRepository stores SearchField records. Deleting a field pulls it
// from every SearchType reference list.
type SearchFieldRepository struct {
	db *database.DB
}

func NewSearchFieldRepository(db *database.DB) *SearchFieldRepository {
	return &SearchFieldRepository{db: db}
}

func scanSearchFieldRow(scanner rowScanner) (*models.SearchField, error) {
	var field models.SearchField

	err := scanner.Scan(&field.ID, &field.Name, &field.Label, &field.CreatedAt, &field.UpdatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &field, nil
}

func scanSearchFieldRows(rows pgx.Rows) ([]*models.SearchField, error) {
	defer rows.Close()

	fields := make([]*models.SearchField, 0)

	for rows.Next() {
		field, err := scanSearchFieldRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search field: %w", err)
		}
		fields = append(fields, field)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search field rows: %w", err)
	}

	return fields, nil
}

func (r *SearchFieldRepository) GetByID(ctx context.Context, id string) (*models.SearchField, error) {
	query := `SELECT ` + searchFieldColumns + ` FROM search_fields WHERE id = $1`

	return scanSearchFieldRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *SearchFieldRepository) GetByName(ctx context.Context, name string) (*models.SearchField, error) {
	query := `SELECT ` + searchFieldColumns + ` FROM search_fields WHERE name = $1`

	return scanSearchFieldRow(r.db.Pool.QueryRow(ctx, query, name))
}

// GetByIDs returns the fields for ids in the order given. Ids with no matching
// row are skipped, so dangling references resolve to nothing.
func (r *SearchFieldRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.SearchField, error) {
	if len(ids) == 0 {
		return []*models.SearchField{}, nil
	}

	query := `
		SELECT ` + searchFieldColumns + `
		FROM search_fields
		WHERE id = ANY($1::text[]::uuid[])
	`

	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query search fields: %w", database.MapPostgresError(err))
	}

	found, err := scanSearchFieldRows(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.SearchField, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}

	ordered := make([]*models.SearchField, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			ordered = append(ordered, f)
		}
	}
	return ordered, nil
}

func (r *SearchFieldRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.SearchField, error) {
	query, args, err := searchFieldListSpec.selectQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query search fields: %w", err)
	}

	return scanSearchFieldRows(rows)
}

func (r *SearchFieldRepository) Count(ctx context.Context, filter models.ListFilter) (int64, error) {
	query, args, err := searchFieldListSpec.countQuery(filter)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count search fields: %w", err)
	}
	return count, nil
}

func (r *SearchFieldRepository) Create(ctx context.Context, field *models.SearchField) (*models.SearchField, error) {
	field.ID = uuid.New().String()

	now := time.Now()
	field.CreatedAt = now
	field.UpdatedAt = now

	query := `
		INSERT INTO search_fields (id, name, label, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + searchFieldColumns

	return scanSearchFieldRow(r.db.Pool.QueryRow(ctx, query,
		field.ID, field.Name, field.Label, field.CreatedAt, field.UpdatedAt,
	))
}

func (r *SearchFieldRepository) Update(ctx context.Context, id string, field *models.SearchField) (*models.SearchField, error) {
	field.UpdatedAt = time.Now()

	query := `
		UPDATE search_fields SET name = $1, label = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + searchFieldColumns

	return scanSearchFieldRow(r.db.Pool.QueryRow(ctx, query,
		field.Name, field.Label, field.UpdatedAt, id,
	))
}

// Delete removes the field and pulls its id from search_types.required_fields
// and search_types.optional_fields in the same transaction. Product.params is
// left untouched.
func (r *SearchFieldRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM search_fields WHERE id = $1`, id)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if result.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		pull := `
			UPDATE search_types
			SET required_fields = array_remove(required_fields, $1::uuid),
			    optional_fields = array_remove(optional_fields, $1::uuid),
			    updated_at = now()
			WHERE $1::uuid = ANY(required_fields) OR $1::uuid = ANY(optional_fields)
		`
		if _, err := tx.Exec(ctx, pull, id); err != nil {
			return fmt.Errorf("failed to pull search field from search types: %w", err)
		}

		return nil
	})
}
