package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/BradenHooton/searchdesk/internal/forms"
	"github.com/BradenHooton/searchdesk/internal/models"
)

// Column is a list column
type Column struct {
	Name  string
	Label string
}

// Row is one record as shown in a list
type Row struct {
	ID    string
	Cells []string
}

// Resource adapts a record type to the generic ModelView handlers.
// Form state travels as url.Values keyed by field name.
type Resource interface {
	Name() string
	Columns() []Column
	List(ctx context.Context, filter models.ListFilter) ([]Row, error)
	Count(ctx context.Context, filter models.ListFilter) (int64, error)
	// Fields returns the form inputs with their options, without values
	Fields(ctx context.Context) ([]forms.Field, error)
	Values(ctx context.Context, id string) (url.Values, error)
	// Save creates the record when id is empty. Field problems are returned as models.ValidationErrors.
	Save(ctx context.Context, id string, values url.Values) (string, error)
	Delete(ctx context.Context, id string) error
	// Lookup searches the records referenced by field
	Lookup(ctx context.Context, field string, columns []string, query string, limit int) ([]models.Option, error)
}

type constraintMessage struct {
	field   string
	message string
}

var constraintMessages = map[string]constraintMessage{
	"users_login_key":                 {"login", models.MsgDuplicateUsername},
	"search_fields_name_key":          {"name", "A search field with this name already exists."},
	"search_types_source_label_key":   {"label", "This label is already used for the source."},
	"search_types_label_endpoint_key": {"endpoint", "This endpoint is already used with the label."},
}

// saveError turns unique violations into form errors
func saveError(err error) error {
	var ce *models.ConstraintError
	if !errors.As(err, &ce) {
		return err
	}

	errs := models.ValidationErrors{}
	if m, ok := constraintMessages[ce.Constraint]; ok {
		errs.Add(m.field, m.message)
	} else {
		errs.Add("", "Record already exists.")
	}
	return errs
}

// checkRefs flags every list field holding an id that was not found
func checkRefs(errs models.ValidationErrors, found map[string]bool, lists map[string][]string) models.ValidationErrors {
	for field, ids := range lists {
		for _, id := range ids {
			if !found[id] {
				if errs == nil {
					errs = models.ValidationErrors{}
				}
				errs.Add(field, "Not a valid choice.")
				break
			}
		}
	}
	return errs
}

func noLookup(field string) error {
	return fmt.Errorf("%w: no lookup for field %q", models.ErrBadRequest, field)
}
