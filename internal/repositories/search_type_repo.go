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

const searchTypeColumns = `id::text, source, label, endpoint,
	required_fields::text[], optional_fields::text[], created_at, updated_at`

var searchTypeListSpec = listSpec{
	table:   "search_types",
	columns: searchTypeColumns,
	searchable: map[string]string{
		"label":    "label",
		"endpoint": "endpoint",
	},
	filterable: map[string]string{
		"source": "source",
		"label":  "label",
	},
	orderBy: "label ASC, source ASC",
}

// SearchTypeRepository stores SearchType records. Deleting a type pulls it
// from every Product.search_types list.
type SearchTypeRepository struct {
	db *database.DB
}

func NewSearchTypeRepository(db *database.DB) *SearchTypeRepository {
	return &SearchTypeRepository{db: db}
}

func scanSearchTypeRow(scanner rowScanner) (*models.SearchType, error) {
	var st models.SearchType

	err := scanner.Scan(
		&st.ID, &st.Source, &st.Label, &st.Endpoint,
		&st.RequiredFields, &st.OptionalFields, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	st.RequiredFields = nonNil(st.RequiredFields)
	st.OptionalFields = nonNil(st.OptionalFields)
	return &st, nil
}

func scanSearchTypeRows(rows pgx.Rows) ([]*models.SearchType, error) {
	defer rows.Close()

	types := make([]*models.SearchType, 0)

	for rows.Next() {
		st, err := scanSearchTypeRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search type: %w", err)
		}
		types = append(types, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search type rows: %w", err)
	}

	return types, nil
}

func (r *SearchTypeRepository) GetByID(ctx context.Context, id string) (*models.SearchType, error) {
	query := `SELECT ` + searchTypeColumns + ` FROM search_types WHERE id = $1`

	return scanSearchTypeRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByIDs returns the types for ids in the order given, skipping unknown ids.
func (r *SearchTypeRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.SearchType, error) {
	if len(ids) == 0 {
		return []*models.SearchType{}, nil
	}

	query := `SELECT ` + searchTypeColumns + ` FROM search_types WHERE id = ANY($1::text[]::uuid[])`

	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query search types: %w", database.MapPostgresError(err))
	}

	found, err := scanSearchTypeRows(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.SearchType, len(found))
	for _, st := range found {
		byID[st.ID] = st
	}

	ordered := make([]*models.SearchType, 0, len(ids))
	for _, id := range ids {
		if st, ok := byID[id]; ok {
			ordered = append(ordered, st)
		}
	}
	return ordered, nil
}

// All returns every search type ordered by label.
func (r *SearchTypeRepository) All(ctx context.Context) ([]*models.SearchType, error) {
	query := `SELECT ` + searchTypeColumns + ` FROM search_types ORDER BY ` + searchTypeListSpec.orderBy

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query search types: %w", err)
	}

	return scanSearchTypeRows(rows)
}

func (r *SearchTypeRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.SearchType, error) {
	query, args, err := searchTypeListSpec.selectQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query search types: %w", err)
	}

	return scanSearchTypeRows(rows)
}

func (r *SearchTypeRepository) Count(ctx context.Context, filter models.ListFilter) (int64, error) {
	query, args, err := searchTypeListSpec.countQuery(filter)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count search types: %w", err)
	}
	return count, nil
}

func (r *SearchTypeRepository) Create(ctx context.Context, st *models.SearchType) (*models.SearchType, error) {
	st.ID = uuid.New().String()

	now := time.Now()
	st.CreatedAt = now
	st.UpdatedAt = now

	query := `
		INSERT INTO search_types (id, source, label, endpoint, required_fields, optional_fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::text[]::uuid[], $6::text[]::uuid[], $7, $8)
		RETURNING ` + searchTypeColumns

	return scanSearchTypeRow(r.db.Pool.QueryRow(ctx, query,
		st.ID, st.Source, st.Label, st.Endpoint,
		nonNil(st.RequiredFields), nonNil(st.OptionalFields), st.CreatedAt, st.UpdatedAt,
	))
}

func (r *SearchTypeRepository) Update(ctx context.Context, id string, st *models.SearchType) (*models.SearchType, error) {
	st.UpdatedAt = time.Now()

	query := `
		UPDATE search_types
		SET source = $1, label = $2, endpoint = $3,
		    required_fields = $4::text[]::uuid[], optional_fields = $5::text[]::uuid[],
		    updated_at = $6
		WHERE id = $7
		RETURNING ` + searchTypeColumns

	return scanSearchTypeRow(r.db.Pool.QueryRow(ctx, query,
		st.Source, st.Label, st.Endpoint,
		nonNil(st.RequiredFields), nonNil(st.OptionalFields), st.UpdatedAt, id,
	))
}

// Delete removes the type and pulls its id from products.search_types in the
// same transaction.
func (r *SearchTypeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM search_types WHERE id = $1`, id)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if result.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		pull := `
			UPDATE products
			SET search_types = array_remove(search_types, $1::uuid), updated_at = now()
			WHERE $1::uuid = ANY(search_types)
		`
		if _, err := tx.Exec(ctx, pull, id); err != nil {
			return fmt.Errorf("failed to pull search type from products: %w", err)
		}

		return nil
	})
}
