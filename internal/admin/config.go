package admin

import (
	"html/template"

	"github.com/BradenHooton/searchdesk/internal/forms"
)

const (
	defaultPageSize   = 20
	defaultAjaxLimit  = 10
	filterParamPrefix = "flt_"
)

// AjaxRef turns a reference field into an on-demand picker that searches
// only the listed columns of the referenced records.
type AjaxRef struct {
	Fields   []string
	PageSize int
}

// ViewConfig customizes a ModelView for one record type
type ViewConfig struct {
	// ColumnFilters may be matched exactly with flt_<column>=value
	ColumnFilters []string
	// ColumnSearchable are matched by the list search box
	ColumnSearchable []string
	AjaxRefs         map[string]AjaxRef
	// FormRules lay out the edit form. Fields not named by a rule are not rendered.
	FormRules  []Rule
	WidgetArgs map[string]map[string]string
	PageSize   int
}

func (c ViewConfig) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return defaultPageSize
}

// FormRow is one rendered element of an edit form
type FormRow struct {
	Field    *forms.Field
	HTML     template.HTML
	Legend   string
	Children []FormRow
}

// Rule places form fields and markup
type Rule interface {
	rows(fields map[string]*forms.Field) []FormRow
}

type fieldRule string

func (r fieldRule) rows(fields map[string]*forms.Field) []FormRow {
	f, ok := fields[string(r)]
	if !ok {
		return nil
	}
	return []FormRow{{Field: f}}
}

type htmlRule template.HTML

func (r htmlRule) rows(map[string]*forms.Field) []FormRow {
	return []FormRow{{HTML: template.HTML(r)}}
}

type subformRule struct {
	legend string
	rules  []Rule
}

func (r subformRule) rows(fields map[string]*forms.Field) []FormRow {
	return []FormRow{{Legend: r.legend, Children: applyRules(r.rules, fields)}}
}

// FieldRule renders the named field
func FieldRule(name string) Rule {
	return fieldRule(name)
}

// HTMLRule renders trusted markup as is
func HTMLRule(markup string) Rule {
	return htmlRule(markup)
}

// Subform groups rules in a fieldset titled legend
func Subform(legend string, rules ...Rule) Rule {
	return subformRule{legend: legend, rules: rules}
}

func applyRules(rules []Rule, fields map[string]*forms.Field) []FormRow {
	var rows []FormRow
	for _, rule := range rules {
		rows = append(rows, rule.rows(fields)...)
	}
	return rows
}
