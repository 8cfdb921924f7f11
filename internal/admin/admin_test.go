package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/BradenHooton/searchdesk/internal/models"
	"github.com/BradenHooton/searchdesk/internal/services"
	pkgauth "github.com/BradenHooton/searchdesk/pkg/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fieldA = "8d6f3f5e-6a7b-4b0e-9a55-1f7b7e6a0a01"
	fieldB = "8d6f3f5e-6a7b-4b0e-9a55-1f7b7e6a0a02"
)

// ============================================================================
// Access control
// ============================================================================

func TestAdmin_AnonymousIsRedirectedToLogin(t *testing.T) {
	h := newTestServer(t, nil, NewUserView(&MockUserStore{}), NewProductView(&mockCatalog{}))

	for _, target := range []string{"/admin/", "/admin/user/", "/admin/user/new/", "/admin/product/"} {
		w := doGet(h, target)
		assert.Equal(t, http.StatusSeeOther, w.Code, target)
		assert.Equal(t, "/login/", w.Header().Get("Location"), target)
	}

	w := doPost(h, "/admin/user/delete/u1", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestAdmin_IndexListsViewsWithCounts(t *testing.T) {
	users := &MockUserStore{
		CountFunc: func(ctx context.Context, filter models.ListFilter) (int64, error) {
			return 3, nil
		},
	}
	fields := &MockSearchFieldStore{
		CountFunc: func(ctx context.Context, filter models.ListFilter) (int64, error) {
			return 7, nil
		},
	}
	h := newTestServer(t, testAdminUser, NewUserView(users), NewSearchFieldView(fields), NewProductView(&mockCatalog{}))

	w := doGet(h, "/admin/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<a href="/admin/user/">User</a>`)
	assert.Contains(t, body, "<td>3</td>")
	assert.Contains(t, body, "<td>7</td>")
	assert.Contains(t, body, `<a href="/admin/product/">Product</a>`)
}

// ============================================================================
// List
// ============================================================================

func TestModelView_ListAppliesSearchAndFilters(t *testing.T) {
	var listed, counted models.ListFilter
	users := &MockUserStore{
		ListFunc: func(ctx context.Context, filter models.ListFilter) ([]*models.User, error) {
			listed = filter
			return []*models.User{{ID: "u1", Login: "alice", Email: "a@example.com"}}, nil
		},
		CountFunc: func(ctx context.Context, filter models.ListFilter) (int64, error) {
			counted = filter
			return 45, nil
		},
	}
	h := newTestServer(t, testAdminUser, NewUserView(users))

	w := doGet(h, "/admin/user/?search=ali&flt_login=alice&flt_email=ignored&page=2")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ali", listed.Search)
	assert.Equal(t, []string{"login", "password"}, listed.SearchColumns)
	assert.Equal(t, map[string]string{"login": "alice"}, listed.Equals)
	assert.Equal(t, 20, listed.Limit)
	assert.Equal(t, 20, listed.Offset)
	assert.Equal(t, listed.Equals, counted.Equals)

	body := w.Body.String()
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "Page 2 of 3")
	assert.Contains(t, body, `href="/admin/user/edit/u1"`)
	assert.Contains(t, body, `action="/admin/user/delete/u1"`)
}

func TestModelView_ListWithoutSearchConfigIgnoresSearch(t *testing.T) {
	var listed models.ListFilter
	fields := &MockSearchFieldStore{
		ListFunc: func(ctx context.Context, filter models.ListFilter) ([]*models.SearchField, error) {
			listed = filter
			return nil, nil
		},
	}
	h := newTestServer(t, testAdminUser, NewSearchFieldView(fields))

	w := doGet(h, "/admin/searchfield/?search=x&flt_name=y&page=bogus")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, listed.Search)
	assert.Empty(t, listed.Equals)
	assert.Equal(t, 0, listed.Offset)
	assert.NotContains(t, w.Body.String(), `type="search"`)
}

func TestModelView_ListStoreFailure(t *testing.T) {
	users := &MockUserStore{
		CountFunc: func(ctx context.Context, filter models.ListFilter) (int64, error) {
			return 0, errors.New("connection reset")
		},
	}
	h := newTestServer(t, testAdminUser, NewUserView(users))

	w := doGet(h, "/admin/user/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ============================================================================
// Create / edit / delete
// ============================================================================

func TestModelView_CreateUser(t *testing.T) {
	var created *models.User
	users := &MockUserStore{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = "u9"
			created = user
			return user, nil
		},
	}
	h := newTestServer(t, testAdminUser, NewUserView(users))

	w := doPost(h, "/admin/user/new/", url.Values{"login": {"bob"}, "password": {"pw"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/user/", w.Header().Get("Location"))
	require.NotNil(t, created)
	assert.Equal(t, "bob", created.Login)
	assert.NoError(t, pkgauth.ComparePassword(created.PasswordHash, "pw"))
}

func TestModelView_CreateUserValidation(t *testing.T) {
	h := newTestServer(t, testAdminUser, NewUserView(&MockUserStore{}))

	w := doPost(h, "/admin/user/new/", url.Values{"login": {"bob"}, "email": {"nope"}})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, models.MsgRequired)
	assert.Contains(t, body, "Invalid email address.")
	assert.Contains(t, body, `value="bob"`)
}

func TestModelView_CreateUserMultibytePassword(t *testing.T) {
	var created *models.User
	users := &MockUserStore{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = "u9"
			created = user
			return user, nil
		},
	}
	h := newTestServer(t, testAdminUser, NewUserView(users))

	w := doPost(h, "/admin/user/new/", url.Values{"login": {"bob"}, "password": {strings.Repeat("日", 30)}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.MsgPasswordTooLong)
	assert.Nil(t, created)

	atLimit := strings.Repeat("日", 24)
	w = doPost(h, "/admin/user/new/", url.Values{"login": {"bob"}, "password": {atLimit}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, created)
	assert.NoError(t, pkgauth.ComparePassword(created.PasswordHash, atLimit))
}

func TestModelView_CreateUserDuplicateLogin(t *testing.T) {
	users := &MockUserStore{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			return nil, &models.ConstraintError{Constraint: "users_login_key"}
		},
	}
	h := newTestServer(t, testAdminUser, NewUserView(users))

	w := doPost(h, "/admin/user/new/", url.Values{"login": {"alice"}, "password": {"pw"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.MsgDuplicateUsername)
}

func TestModelView_EditUserKeepsBlankPassword(t *testing.T) {
	var updated *models.User
	users := &MockUserStore{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Login: "alice", PasswordHash: "hash"}, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			user.ID = id
			updated = user
			return user, nil
		},
	}
	h := newTestServer(t, testAdminUser, NewUserView(users))

	w := doGet(h, "/admin/user/edit/u1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="alice"`)
	assert.NotContains(t, w.Body.String(), "hash")

	w = doPost(h, "/admin/user/edit/u1", url.Values{"login": {"alice2"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, updated)
	assert.Equal(t, "alice2", updated.Login)
	assert.Empty(t, updated.PasswordHash)
}

func TestModelView_EditMissingRecord(t *testing.T) {
	h := newTestServer(t, testAdminUser, NewUserView(&MockUserStore{}))

	assert.Equal(t, http.StatusNotFound, doGet(h, "/admin/user/edit/missing").Code)

	users := &MockUserStore{
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}
	h = newTestServer(t, testAdminUser, NewUserView(users))
	w := doPost(h, "/admin/user/edit/missing", url.Values{"login": {"x"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestModelView_Delete(t *testing.T) {
	var deleted string
	fields := &MockSearchFieldStore{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	h := newTestServer(t, testAdminUser, NewSearchFieldView(fields))

	w := doPost(h, "/admin/searchfield/delete/f1", url.Values{})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/searchfield/", w.Header().Get("Location"))
	assert.Equal(t, "f1", deleted)
}

func TestModelView_DeleteMissing(t *testing.T) {
	fields := &MockSearchFieldStore{
		DeleteFunc: func(ctx context.Context, id string) error {
			return models.ErrNotFound
		},
	}
	h := newTestServer(t, testAdminUser, NewSearchFieldView(fields))

	assert.Equal(t, http.StatusNotFound, doPost(h, "/admin/searchfield/delete/f1", url.Values{}).Code)
}

// ============================================================================
// Search types
// ============================================================================

func knownFields() *MockSearchFieldStore {
	all := []*models.SearchField{
		{ID: fieldA, Name: "first_name", Label: "First name"},
		{ID: fieldB, Name: "last_name", Label: "Last name"},
	}
	return &MockSearchFieldStore{
		ListFunc: func(ctx context.Context, filter models.ListFilter) ([]*models.SearchField, error) {
			return all, nil
		},
		GetByIDsFunc: func(ctx context.Context, ids []string) ([]*models.SearchField, error) {
			var out []*models.SearchField
			for _, id := range ids {
				for _, f := range all {
					if f.ID == id {
						out = append(out, f)
					}
				}
			}
			return out, nil
		},
	}
}

func TestSearchTypeView_CreateKeepsFieldOrder(t *testing.T) {
	var created *models.SearchType
	types := &MockSearchTypeStore{
		CreateFunc: func(ctx context.Context, st *models.SearchType) (*models.SearchType, error) {
			st.ID = "t1"
			created = st
			return st, nil
		},
	}
	h := newTestServer(t, testAdminUser, NewSearchTypeView(types, knownFields()))

	w := doPost(h, "/admin/searchtype/new/", url.Values{
		"source":          {"database"},
		"label":           {"People"},
		"endpoint":        {"/people"},
		"required_fields": {fieldB, fieldA},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, created)
	assert.Equal(t, []string{fieldB, fieldA}, created.RequiredFields)
	assert.Empty(t, created.OptionalFields)
}

func TestSearchTypeView_CreateValidation(t *testing.T) {
	h := newTestServer(t, testAdminUser, NewSearchTypeView(&MockSearchTypeStore{}, knownFields()))

	w := doPost(h, "/admin/searchtype/new/", url.Values{
		"source":          {"ftp"},
		"label":           {"People"},
		"optional_fields": {"8d6f3f5e-6a7b-4b0e-9a55-1f7b7e6a0aff"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Not a valid choice.")
	assert.Contains(t, body, models.MsgRequired)
}

func TestSearchTypeView_CompoundUniqueness(t *testing.T) {
	types := &MockSearchTypeStore{
		CreateFunc: func(ctx context.Context, st *models.SearchType) (*models.SearchType, error) {
			return nil, &models.ConstraintError{Constraint: "search_types_source_label_key"}
		},
	}
	h := newTestServer(t, testAdminUser, NewSearchTypeView(types, knownFields()))

	w := doPost(h, "/admin/searchtype/new/", url.Values{
		"source": {"database"}, "label": {"People"}, "endpoint": {"/people"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This label is already used for the source.")
}

func TestSearchTypeView_ListShowsFieldLabels(t *testing.T) {
	types := &MockSearchTypeStore{
		ListFunc: func(ctx context.Context, filter models.ListFilter) ([]*models.SearchType, error) {
			return []*models.SearchType{{
				ID: "t1", Source: "database", Label: "People", Endpoint: "/people",
				RequiredFields: []string{fieldB, fieldA},
			}}, nil
		},
	}
	h := newTestServer(t, testAdminUser, NewSearchTypeView(types, knownFields()))

	w := doGet(h, "/admin/searchtype/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<td>Last name, First name</td>")
}

func TestSearchTypeView_EditOffersEveryField(t *testing.T) {
	all := make([]*models.SearchField, models.MaxListLimit+1)
	for i := range all {
		all[i] = &models.SearchField{ID: fmt.Sprintf("field-%04d", i), Name: fmt.Sprintf("f%d", i), Label: fmt.Sprintf("Field %d", i)}
	}
	var pages int
	fields := &MockSearchFieldStore{
		ListFunc: func(ctx context.Context, filter models.ListFilter) ([]*models.SearchField, error) {
			pages++
			assert.LessOrEqual(t, filter.Limit, models.MaxListLimit)
			end := min(filter.Offset+filter.Limit, len(all))
			return all[filter.Offset:end], nil
		},
	}
	last := all[len(all)-1].ID
	types := &MockSearchTypeStore{
		GetByIDFunc: func(ctx context.Context, id string) (*models.SearchType, error) {
			return &models.SearchType{ID: id, Source: "database", Label: "People", Endpoint: "/people", OptionalFields: []string{last}}, nil
		},
	}
	h := newTestServer(t, testAdminUser, NewSearchTypeView(types, fields))

	w := doGet(h, "/admin/searchtype/edit/t1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, pages)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`<option value="%s" selected>`, last))
}

// ============================================================================
// Presets
// ============================================================================

func TestReferencePickerView_AjaxLookup(t *testing.T) {
	var searched models.ListFilter
	fields := knownFields()
	fields.ListFunc = func(ctx context.Context, filter models.ListFilter) ([]*models.SearchField, error) {
		searched = filter
		return []*models.SearchField{{ID: fieldA, Name: "first_name", Label: "First name"}}, nil
	}
	h := newTestServer(t, testAdminUser, NewReferencePickerView(&MockSearchTypeStore{}, fields))

	w := doGet(h, "/admin/searchtype_picker/ajax/lookup/?name=required_fields&query=first")

	require.Equal(t, http.StatusOK, w.Code)
	var pairs [][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pairs))
	assert.Equal(t, [][]string{{fieldA, "First name"}}, pairs)
	assert.Equal(t, "first", searched.Search)
	assert.Equal(t, []string{"name"}, searched.SearchColumns)
	assert.Equal(t, defaultAjaxLimit, searched.Limit)
}

func TestReferencePickerView_AjaxLookupRestrictedToConfiguredFields(t *testing.T) {
	h := newTestServer(t, testAdminUser,
		NewReferencePickerView(&MockSearchTypeStore{}, knownFields()),
		NewSearchTypeView(&MockSearchTypeStore{}, knownFields()),
	)

	for _, target := range []string{
		"/admin/searchtype_picker/ajax/lookup/?name=optional_fields&query=x",
		"/admin/searchtype_picker/ajax/lookup/?query=x",
		"/admin/searchtype/ajax/lookup/?name=required_fields&query=x",
	} {
		w := doGet(h, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), "bad_request", target)
	}
}

func TestReferencePickerView_FormAndFilters(t *testing.T) {
	var listed models.ListFilter
	types := &MockSearchTypeStore{
		ListFunc: func(ctx context.Context, filter models.ListFilter) ([]*models.SearchType, error) {
			listed = filter
			return nil, nil
		},
	}
	h := newTestServer(t, testAdminUser, NewReferencePickerView(types, knownFields()))

	w := doGet(h, "/admin/searchtype_picker/?flt_source=external&search=peo")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"source": "external"}, listed.Equals)
	assert.Equal(t, []string{"label"}, listed.SearchColumns)

	w = doGet(h, "/admin/searchtype_picker/new/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-ajax-url="/admin/searchtype_picker/ajax/lookup/?name=required_fields"`)
}

func TestSeparatedSubformView_RendersRulesAndWidgetArgs(t *testing.T) {
	h := newTestServer(t, testAdminUser, NewSeparatedSubformView(&MockSearchFieldStore{}))

	w := doGet(h, "/admin/searchfield_separated/new/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<legend>Search field</legend>")
	assert.Contains(t, body, `name="name" value="" required style="color: red"`)
	assert.Contains(t, body, "<hr>")
	assert.Less(t, strings.Index(body, `name="label"`), strings.Index(body, "<hr>"))
}

func TestFormRules_OmitUnlistedFields(t *testing.T) {
	view := NewModelView("user", NewUserResource(&MockUserStore{}), ViewConfig{
		FormRules: []Rule{FieldRule("login"), HTMLRule("<p>note</p>"), FieldRule("missing")},
	})
	fields, err := view.resource.Fields(context.Background())
	require.NoError(t, err)

	rows := view.formRows(fields, url.Values{"login": {"alice"}}, nil)

	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].Field.Value)
	assert.Equal(t, "<p>note</p>", string(rows[1].HTML))
}

// ============================================================================
// Product view
// ============================================================================

type mockCatalog struct {
	catalog *services.ProductCatalog
	err     error
}

func (m *mockCatalog) ProductCatalog(ctx context.Context) (*services.ProductCatalog, error) {
	if m.catalog == nil && m.err == nil {
		return &services.ProductCatalog{}, nil
	}
	return m.catalog, m.err
}

func TestProductView_ListsSearchTypes(t *testing.T) {
	people := &models.SearchType{ID: "t1", Source: "database", Label: "People", Endpoint: "/people"}
	catalog := &mockCatalog{catalog: &services.ProductCatalog{
		SearchTypes: []services.SearchTypeSummary{{
			SearchType:     people,
			Required:       []*models.SearchField{{ID: fieldA, Label: "First name"}},
			ActiveProducts: 2,
		}},
		Products: []services.ProductSummary{{
			Product: &models.Product{ID: "p1", Name: "Basic", Active: true, Price: decimal.RequireFromString("9.5")},
			Types:   []*models.SearchType{people},
		}},
	}}
	h := newTestServer(t, testAdminUser, NewProductView(catalog))

	w := doGet(h, "/admin/product/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<td>People</td>")
	assert.Contains(t, body, "<td>First name</td>")
	assert.Contains(t, body, "<td>2</td>")
	assert.Contains(t, body, "<td>9.50</td>")
}

func TestProductView_LoadFailure(t *testing.T) {
	h := newTestServer(t, testAdminUser, NewProductView(&mockCatalog{err: errors.New("boom")}))

	assert.Equal(t, http.StatusInternalServerError, doGet(h, "/admin/product/").Code)
}
