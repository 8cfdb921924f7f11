package admin

import (
	"context"
	"net/url"
	"strings"

	"github.com/BradenHooton/searchdesk/internal/forms"
	"github.com/BradenHooton/searchdesk/internal/models"
)

type searchTypeInput struct {
	Source         string   `form:"source" validate:"required,oneof=database external"`
	Label          string   `form:"label" validate:"required"`
	Endpoint       string   `form:"endpoint" validate:"required"`
	RequiredFields []string `form:"required_fields" validate:"dive,uuid"`
	OptionalFields []string `form:"optional_fields" validate:"dive,uuid"`
}

// SearchTypeResource exposes search types to the admin. Its field lists
// reference search fields.
type SearchTypeResource struct {
	store  SearchTypeStore
	fields SearchFieldStore
}

func NewSearchTypeResource(store SearchTypeStore, fields SearchFieldStore) *SearchTypeResource {
	return &SearchTypeResource{store: store, fields: fields}
}

func (r *SearchTypeResource) Name() string { return "Search Type" }

func (r *SearchTypeResource) Columns() []Column {
	return []Column{
		{Name: "source", Label: "Source"},
		{Name: "label", Label: "Label"},
		{Name: "endpoint", Label: "Endpoint"},
		{Name: "required_fields", Label: "Required Fields"},
		{Name: "optional_fields", Label: "Optional Fields"},
	}
}

func (r *SearchTypeResource) List(ctx context.Context, filter models.ListFilter) ([]Row, error) {
	types, err := r.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, t := range types {
		ids = append(ids, t.RequiredFields...)
		ids = append(ids, t.OptionalFields...)
	}
	labels, err := r.fieldLabels(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(types))
	for _, t := range types {
		rows = append(rows, Row{ID: t.ID, Cells: []string{
			t.Source,
			t.Label,
			t.Endpoint,
			joinLabels(t.RequiredFields, labels),
			joinLabels(t.OptionalFields, labels),
		}})
	}
	return rows, nil
}

func (r *SearchTypeResource) Count(ctx context.Context, filter models.ListFilter) (int64, error) {
	return r.store.Count(ctx, filter)
}

func (r *SearchTypeResource) Fields(ctx context.Context) ([]forms.Field, error) {
	fields, err := r.allFields(ctx)
	if err != nil {
		return nil, err
	}

	fieldOptions := make([]forms.Option, 0, len(fields))
	for _, f := range fields {
		fieldOptions = append(fieldOptions, forms.Option{Value: f.ID, Label: f.String()})
	}
	sourceOptions := make([]forms.Option, 0, len(models.SearchSources))
	for _, s := range models.SearchSources {
		sourceOptions = append(sourceOptions, forms.Option{Value: s, Label: s})
	}

	return []forms.Field{
		{Name: "source", Label: "Source", Type: forms.InputSelect, Required: true, Options: sourceOptions},
		{Name: "label", Label: "Label", Type: forms.InputText, Required: true},
		{Name: "required_fields", Label: "Required Fields", Type: forms.InputSelect, Multiple: true, Options: fieldOptions},
		{Name: "optional_fields", Label: "Optional Fields", Type: forms.InputSelect, Multiple: true, Options: cloneOptions(fieldOptions)},
		{Name: "endpoint", Label: "Endpoint", Type: forms.InputText, Required: true},
	}, nil
}

// allFields pages through every search field so an edit form never drops a
// referenced field from its options.
func (r *SearchTypeResource) allFields(ctx context.Context) ([]*models.SearchField, error) {
	var all []*models.SearchField
	for offset := 0; ; offset += models.MaxListLimit {
		page, err := r.fields.List(ctx, models.ListFilter{Limit: models.MaxListLimit, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < models.MaxListLimit {
			return all, nil
		}
	}
}

func (r *SearchTypeResource) Values(ctx context.Context, id string) (url.Values, error) {
	t, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return url.Values{
		"source":          {t.Source},
		"label":           {t.Label},
		"endpoint":        {t.Endpoint},
		"required_fields": t.RequiredFields,
		"optional_fields": t.OptionalFields,
	}, nil
}

func (r *SearchTypeResource) Save(ctx context.Context, id string, values url.Values) (string, error) {
	in := searchTypeInput{
		Source:         values.Get("source"),
		Label:          values.Get("label"),
		Endpoint:       values.Get("endpoint"),
		RequiredFields: nonEmpty(values["required_fields"]),
		OptionalFields: nonEmpty(values["optional_fields"]),
	}

	errs := forms.Validate(&in)
	if !errs.Has("required_fields") && !errs.Has("optional_fields") {
		found, err := r.existingFields(ctx, append(append([]string{}, in.RequiredFields...), in.OptionalFields...))
		if err != nil {
			return "", err
		}
		errs = checkRefs(errs, found, map[string][]string{
			"required_fields": in.RequiredFields,
			"optional_fields": in.OptionalFields,
		})
	}
	if errs != nil {
		return "", errs
	}

	st := &models.SearchType{
		Source:         in.Source,
		Label:          in.Label,
		Endpoint:       in.Endpoint,
		RequiredFields: in.RequiredFields,
		OptionalFields: in.OptionalFields,
	}

	var (
		saved *models.SearchType
		err   error
	)
	if id == "" {
		saved, err = r.store.Create(ctx, st)
	} else {
		saved, err = r.store.Update(ctx, id, st)
	}
	if err != nil {
		return "", saveError(err)
	}
	return saved.ID, nil
}

func (r *SearchTypeResource) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

// Lookup searches search fields for either field list
func (r *SearchTypeResource) Lookup(ctx context.Context, field string, columns []string, query string, limit int) ([]models.Option, error) {
	if field != "required_fields" && field != "optional_fields" {
		return nil, noLookup(field)
	}

	fields, err := r.fields.List(ctx, models.ListFilter{
		Search:        query,
		SearchColumns: columns,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}

	opts := make([]models.Option, 0, len(fields))
	for _, f := range fields {
		opts = append(opts, models.Option{ID: f.ID, Label: f.String()})
	}
	return opts, nil
}

func (r *SearchTypeResource) existingFields(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	fields, err := r.fields.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		found[f.ID] = true
	}
	return found, nil
}

func (r *SearchTypeResource) fieldLabels(ctx context.Context, ids []string) (map[string]string, error) {
	labels := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return labels, nil
	}

	fields, err := r.fields.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		labels[f.ID] = f.String()
	}
	return labels, nil
}

func joinLabels(ids []string, labels map[string]string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if label, ok := labels[id]; ok {
			out = append(out, label)
		}
	}
	return strings.Join(out, ", ")
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func cloneOptions(opts []forms.Option) []forms.Option {
	return append([]forms.Option(nil), opts...)
}
