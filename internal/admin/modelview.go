package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/BradenHooton/searchdesk/internal/forms"
	"github.com/BradenHooton/searchdesk/internal/models"
	pkghttp "github.com/BradenHooton/searchdesk/pkg/http"
	pkglogger "github.com/BradenHooton/searchdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// ModelView serves list, create, edit, delete and reference lookup pages
// for one Resource
type ModelView struct {
	endpoint string
	resource Resource
	config   ViewConfig
	admin    *Admin
}

// NewModelView creates a view mounted at /<endpoint>/
func NewModelView(endpoint string, resource Resource, config ViewConfig) *ModelView {
	return &ModelView{endpoint: endpoint, resource: resource, config: config}
}

func (v *ModelView) Name() string     { return v.resource.Name() }
func (v *ModelView) Endpoint() string { return v.endpoint }

// Count reports the total number of records for the admin index
func (v *ModelView) Count(ctx context.Context) (int64, error) {
	return v.resource.Count(ctx, models.ListFilter{})
}

func (v *ModelView) Register(r chi.Router, a *Admin) {
	v.admin = a

	r.Get("/", v.list)
	r.Get("/new/", v.createForm)
	r.Post("/new/", v.create)
	r.Get("/edit/{id}", v.editForm)
	r.Post("/edit/{id}", v.edit)
	r.Post("/delete/{id}", v.delete)
	r.Get("/ajax/lookup/", v.ajaxLookup)
}

func (v *ModelView) url(suffix string) string {
	return v.admin.URL(v.endpoint) + suffix
}

type filterInput struct {
	Param string
	Label string
	Value string
}

type listRow struct {
	Row
	EditURL   string
	DeleteURL string
}

type listPage struct {
	Name          string
	URL           string
	CreateURL     string
	Columns       []Column
	Rows          []listRow
	Total         int64
	Searchable    bool
	Search        string
	SearchColumns []string
	Filters       []filterInput
	Page          int
	Pages         int
	PrevURL       string
	NextURL       string
}

func (v *ModelView) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, filters := v.listFilter(query)

	pageNum, err := strconv.Atoi(query.Get("page"))
	if err != nil || pageNum < 1 {
		pageNum = 1
	}
	size := v.config.pageSize()
	filter.Limit = size
	filter.Offset = (pageNum - 1) * size

	total, err := v.resource.Count(r.Context(), filter)
	if err != nil {
		v.fail(w, r, err, "failed to count records")
		return
	}

	rows, err := v.resource.List(r.Context(), filter)
	if err != nil {
		v.fail(w, r, err, "failed to list records")
		return
	}

	page := listPage{
		Name:          v.Name(),
		URL:           v.url(""),
		CreateURL:     v.url("new/"),
		Columns:       v.resource.Columns(),
		Rows:          make([]listRow, 0, len(rows)),
		Total:         total,
		Searchable:    len(v.config.ColumnSearchable) > 0,
		Search:        filter.Search,
		SearchColumns: v.config.ColumnSearchable,
		Filters:       filters,
		Page:          pageNum,
		Pages:         int((total + int64(size) - 1) / int64(size)),
	}
	for _, row := range rows {
		page.Rows = append(page.Rows, listRow{
			Row:       row,
			EditURL:   v.url("edit/" + url.PathEscape(row.ID)),
			DeleteURL: v.url("delete/" + url.PathEscape(row.ID)),
		})
	}
	if pageNum > 1 {
		page.PrevURL = v.pageURL(query, pageNum-1)
	}
	if pageNum < page.Pages {
		page.NextURL = v.pageURL(query, pageNum+1)
	}

	v.admin.render(w, r, http.StatusOK, "admin/list.html", v.Name(), v.endpoint, page)
}

// listFilter reads search= and flt_<column>= for the configured columns only
func (v *ModelView) listFilter(query url.Values) (models.ListFilter, []filterInput) {
	var filter models.ListFilter

	if len(v.config.ColumnSearchable) > 0 {
		filter.Search = query.Get("search")
		filter.SearchColumns = v.config.ColumnSearchable
	}

	filters := make([]filterInput, 0, len(v.config.ColumnFilters))
	for _, col := range v.config.ColumnFilters {
		value := query.Get(filterParamPrefix + col)
		filters = append(filters, filterInput{Param: filterParamPrefix + col, Label: v.columnLabel(col), Value: value})
		if value == "" {
			continue
		}
		if filter.Equals == nil {
			filter.Equals = make(map[string]string)
		}
		filter.Equals[col] = value
	}

	return filter, filters
}

func (v *ModelView) columnLabel(name string) string {
	for _, c := range v.resource.Columns() {
		if c.Name == name {
			return c.Label
		}
	}
	return name
}

func (v *ModelView) pageURL(query url.Values, page int) string {
	q := url.Values{}
	for k, vals := range query {
		q[k] = vals
	}
	q.Set("page", strconv.Itoa(page))
	return v.url("") + "?" + q.Encode()
}

type editPage struct {
	ID         string
	Name       string
	Action     string
	ListURL    string
	Rows       []FormRow
	FormErrors []string
}

func (v *ModelView) createForm(w http.ResponseWriter, r *http.Request) {
	v.renderForm(w, r, "", url.Values{}, nil)
}

func (v *ModelView) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		v.admin.renderer.Error(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	id, err := v.resource.Save(r.Context(), "", r.PostForm)
	if err != nil {
		v.saveFailed(w, r, "", err)
		return
	}

	v.admin.logAction(r, pkglogger.EventAdminCreate, v.endpoint, id)
	http.Redirect(w, r, v.url(""), http.StatusSeeOther)
}

func (v *ModelView) editForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	values, err := v.resource.Values(r.Context(), id)
	if err != nil {
		v.fail(w, r, err, "failed to load record")
		return
	}

	v.renderForm(w, r, id, values, nil)
}

func (v *ModelView) edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		v.admin.renderer.Error(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	if _, err := v.resource.Save(r.Context(), id, r.PostForm); err != nil {
		v.saveFailed(w, r, id, err)
		return
	}

	v.admin.logAction(r, pkglogger.EventAdminUpdate, v.endpoint, id)
	http.Redirect(w, r, v.url(""), http.StatusSeeOther)
}

func (v *ModelView) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := v.resource.Delete(r.Context(), id); err != nil {
		v.fail(w, r, err, "failed to delete record")
		return
	}

	v.admin.logAction(r, pkglogger.EventAdminDelete, v.endpoint, id)
	http.Redirect(w, r, v.url(""), http.StatusSeeOther)
}

func (v *ModelView) saveFailed(w http.ResponseWriter, r *http.Request, id string, err error) {
	var ve models.ValidationErrors
	if errors.As(err, &ve) {
		v.renderForm(w, r, id, r.PostForm, ve)
		return
	}
	v.fail(w, r, err, "failed to save record")
}

func (v *ModelView) renderForm(w http.ResponseWriter, r *http.Request, id string, values url.Values, errs models.ValidationErrors) {
	fields, err := v.resource.Fields(r.Context())
	if err != nil {
		v.fail(w, r, err, "failed to load form")
		return
	}

	action := v.url("new/")
	if id != "" {
		action = v.url("edit/" + url.PathEscape(id))
	}

	v.admin.render(w, r, http.StatusOK, "admin/edit.html", v.Name(), v.endpoint, editPage{
		ID:         id,
		Name:       v.Name(),
		Action:     action,
		ListURL:    v.url(""),
		Rows:       v.formRows(fields, values, errs),
		FormErrors: errs[""],
	})
}

// formRows fills fields from values and lays them out by the form rules
func (v *ModelView) formRows(fields []forms.Field, values url.Values, errs models.ValidationErrors) []FormRow {
	byName := make(map[string]*forms.Field, len(fields))
	ordered := make([]FormRow, 0, len(fields))

	for i := range fields {
		f := &fields[i]
		fillField(f, values)
		f.Errors = errs[f.Name]
		if args, ok := v.config.WidgetArgs[f.Name]; ok {
			f.Attrs = args
		}
		if _, ok := v.config.AjaxRefs[f.Name]; ok {
			f.AjaxURL = v.url("ajax/lookup/") + "?name=" + url.QueryEscape(f.Name)
		}
		byName[f.Name] = f
		ordered = append(ordered, FormRow{Field: f})
	}

	if len(v.config.FormRules) == 0 {
		return ordered
	}
	return applyRules(v.config.FormRules, byName)
}

func fillField(f *forms.Field, values url.Values) {
	switch f.Type {
	case forms.InputPassword:
		// never echoed
	case forms.InputSelect:
		selected := make(map[string]bool, len(values[f.Name]))
		for _, val := range values[f.Name] {
			selected[val] = true
		}
		opts := make([]forms.Option, len(f.Options))
		for i, opt := range f.Options {
			opt.Selected = selected[opt.Value]
			opts[i] = opt
		}
		f.Options = opts
	default:
		f.Value = values.Get(f.Name)
	}
}

func (v *ModelView) ajaxLookup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := query.Get("name")

	ref, ok := v.config.AjaxRefs[name]
	if !ok {
		pkghttp.WriteBadRequest(w, "unknown lookup field")
		return
	}

	limit := ref.PageSize
	if limit <= 0 {
		limit = defaultAjaxLimit
	}

	opts, err := v.resource.Lookup(r.Context(), name, ref.Fields, query.Get("query"), limit)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "lookup not available")
			return
		}
		v.admin.logger.Error("ajax lookup failed", slog.String("view", v.endpoint), slog.Any("error", err))
		pkghttp.WriteInternalError(w, "lookup failed")
		return
	}

	pairs := make([][2]string, 0, len(opts))
	for _, opt := range opts {
		pairs = append(pairs, [2]string{opt.ID, opt.Label})
	}
	pkghttp.WriteJSON(w, http.StatusOK, pairs)
}

// fail maps err to an error page, logging anything unexpected
func (v *ModelView) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		v.admin.renderer.Error(w, r, http.StatusNotFound, "Record not found.")
	case errors.Is(err, models.ErrBadRequest):
		v.admin.renderer.Error(w, r, http.StatusBadRequest, "Invalid request.")
	default:
		v.admin.logger.Error(msg, slog.String("view", v.endpoint), slog.Any("error", err))
		v.admin.renderer.Error(w, r, http.StatusInternalServerError, "")
	}
}
