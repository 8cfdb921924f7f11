package services

import (
	"context"
	"fmt"

	"github.com/BradenHooton/searchdesk/internal/models"
)

// productCatalogLimit caps the number of products shown on the product overview
const productCatalogLimit = 500

// CatalogSearchTypeRepository is the subset of SearchTypeRepository used by CatalogService
type CatalogSearchTypeRepository interface {
	All(ctx context.Context) ([]*models.SearchType, error)
}

// CatalogSearchFieldRepository is the subset of SearchFieldRepository used by CatalogService
type CatalogSearchFieldRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*models.SearchField, error)
}

// CatalogProductRepository is the subset of ProductRepository used by CatalogService
type CatalogProductRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]*models.Product, error)
	CountBySearchType(ctx context.Context) (map[string]int64, error)
}

// SearchTypeSummary is a search type with its fields resolved
type SearchTypeSummary struct {
	*models.SearchType
	Required       []*models.SearchField
	Optional       []*models.SearchField
	ActiveProducts int64
}

// ProductSummary is a product with its references resolved. Ids that no
// longer point at a record are left out.
type ProductSummary struct {
	*models.Product
	Types  []*models.SearchType
	Fields []*models.SearchField
}

// ProductCatalog backs the admin product overview
type ProductCatalog struct {
	SearchTypes []SearchTypeSummary
	Products    []ProductSummary
}

// CatalogService assembles read-only views over search types and products
type CatalogService struct {
	types    CatalogSearchTypeRepository
	fields   CatalogSearchFieldRepository
	products CatalogProductRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(types CatalogSearchTypeRepository, fields CatalogSearchFieldRepository, products CatalogProductRepository) *CatalogService {
	return &CatalogService{types: types, fields: fields, products: products}
}

// ProductCatalog lists every search type and product with references resolved
func (s *CatalogService) ProductCatalog(ctx context.Context) (*ProductCatalog, error) {
	types, err := s.types.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load search types: %w", err)
	}

	products, err := s.products.List(ctx, models.ListFilter{Limit: productCatalogLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	counts, err := s.products.CountBySearchType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var fieldIDs []string
	for _, t := range types {
		fieldIDs = append(fieldIDs, t.RequiredFields...)
		fieldIDs = append(fieldIDs, t.OptionalFields...)
	}
	for _, p := range products {
		fieldIDs = append(fieldIDs, p.Params...)
	}

	fields, err := s.fields.GetByIDs(ctx, dedupe(fieldIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load search fields: %w", err)
	}

	fieldByID := make(map[string]*models.SearchField, len(fields))
	for _, f := range fields {
		fieldByID[f.ID] = f
	}
	typeByID := make(map[string]*models.SearchType, len(types))
	for _, t := range types {
		typeByID[t.ID] = t
	}

	catalog := &ProductCatalog{
		SearchTypes: make([]SearchTypeSummary, 0, len(types)),
		Products:    make([]ProductSummary, 0, len(products)),
	}
	for _, t := range types {
		catalog.SearchTypes = append(catalog.SearchTypes, SearchTypeSummary{
			SearchType:     t,
			Required:       resolve(t.RequiredFields, fieldByID),
			Optional:       resolve(t.OptionalFields, fieldByID),
			ActiveProducts: counts[t.ID],
		})
	}
	for _, p := range products {
		catalog.Products = append(catalog.Products, ProductSummary{
			Product: p,
			Types:   resolve(p.SearchTypes, typeByID),
			Fields:  resolve(p.Params, fieldByID),
		})
	}

	return catalog, nil
}

// resolve maps ids to records in order, skipping ids with no record
func resolve[T any](ids []string, byID map[string]*T) []*T {
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
