package admin

import (
	"context"
	"net/url"

	"github.com/BradenHooton/searchdesk/internal/forms"
	"github.com/BradenHooton/searchdesk/internal/models"
)

type searchFieldInput struct {
	Name  string `form:"name" validate:"required"`
	Label string `form:"label" validate:"required"`
}

// SearchFieldResource exposes search fields to the admin
type SearchFieldResource struct {
	store SearchFieldStore
}

func NewSearchFieldResource(store SearchFieldStore) *SearchFieldResource {
	return &SearchFieldResource{store: store}
}

func (r *SearchFieldResource) Name() string { return "Search Field" }

func (r *SearchFieldResource) Columns() []Column {
	return []Column{
		{Name: "name", Label: "Name"},
		{Name: "label", Label: "Label"},
	}
}

func (r *SearchFieldResource) List(ctx context.Context, filter models.ListFilter) ([]Row, error) {
	fields, err := r.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, Row{ID: f.ID, Cells: []string{f.Name, f.Label}})
	}
	return rows, nil
}

func (r *SearchFieldResource) Count(ctx context.Context, filter models.ListFilter) (int64, error) {
	return r.store.Count(ctx, filter)
}

func (r *SearchFieldResource) Fields(ctx context.Context) ([]forms.Field, error) {
	return []forms.Field{
		{Name: "name", Label: "Name", Type: forms.InputText, Required: true},
		{Name: "label", Label: "Label", Type: forms.InputText, Required: true},
	}, nil
}

func (r *SearchFieldResource) Values(ctx context.Context, id string) (url.Values, error) {
	f, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return url.Values{"name": {f.Name}, "label": {f.Label}}, nil
}

func (r *SearchFieldResource) Save(ctx context.Context, id string, values url.Values) (string, error) {
	in := searchFieldInput{Name: values.Get("name"), Label: values.Get("label")}
	if errs := forms.Validate(&in); errs != nil {
		return "", errs
	}

	field := &models.SearchField{Name: in.Name, Label: in.Label}

	var (
		saved *models.SearchField
		err   error
	)
	if id == "" {
		saved, err = r.store.Create(ctx, field)
	} else {
		saved, err = r.store.Update(ctx, id, field)
	}
	if err != nil {
		return "", saveError(err)
	}
	return saved.ID, nil
}

func (r *SearchFieldResource) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func (r *SearchFieldResource) Lookup(ctx context.Context, field string, columns []string, query string, limit int) ([]models.Option, error) {
	return nil, noLookup(field)
}
