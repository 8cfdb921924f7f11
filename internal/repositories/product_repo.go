package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/searchdesk/internal/database"
	"github.com/BradenHooton/searchdesk/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const productColumns = `id::text, active, name, price::text,
	search_types::text[], params::text[], created_at, updated_at`

var productListSpec = listSpec{
	table:   "products",
	columns: productColumns,
	searchable: map[string]string{
		"name": "name",
	},
	filterable: map[string]string{
		"active": "active::text",
		"name":   "name",
	},
	orderBy: "name ASC",
}

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{pool: db.Pool}
}

func scanProductRow(scanner rowScanner) (*models.Product, error) {
	var (
		p     models.Product
		price string
	)

	err := scanner.Scan(
		&p.ID, &p.Active, &p.Name, &price,
		&p.SearchTypes, &p.Params, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid stored price %q: %w", price, err)
	}
	p.SearchTypes = nonNil(p.SearchTypes)
	p.Params = nonNil(p.Params)

	return &p, nil
}

func scanProductRows(rows pgx.Rows) ([]*models.Product, error) {
	defer rows.Close()

	products := make([]*models.Product, 0)

	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	return scanProductRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ProductRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Product, error) {
	query, args, err := productListSpec.selectQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return scanProductRows(rows)
}

// CountBySearchType returns, per search type id, how many active products offer it.
func (r *ProductRepository) CountBySearchType(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT st::text, COUNT(*)
		FROM products, unnest(search_types) AS st
		WHERE active
		GROUP BY st
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count products by search type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			id    string
			count int64
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan product count: %w", err)
		}
		counts[id] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product counts: %w", err)
	}

	return counts, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	p.ID = uuid.New().String()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO products (id, active, name, price, search_types, params, created_at, updated_at)
		VALUES ($1, $2, $3, $4::text::numeric, $5::text[]::uuid[], $6::text[]::uuid[], $7, $8)
		RETURNING ` + productColumns

	return scanProductRow(r.pool.QueryRow(ctx, query,
		p.ID, p.Active, p.Name, p.Price.StringFixed(models.PricePlaces),
		nonNil(p.SearchTypes), nonNil(p.Params), p.CreatedAt, p.UpdatedAt,
	))
}
