package admin

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/BradenHooton/searchdesk/internal/auth"
	"github.com/BradenHooton/searchdesk/internal/models"
	"github.com/BradenHooton/searchdesk/internal/render"
	pkglogger "github.com/BradenHooton/searchdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// MockUserStore implements UserStore for testing
type MockUserStore struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.User, error)
	ListFunc    func(ctx context.Context, filter models.ListFilter) ([]*models.User, error)
	CountFunc   func(ctx context.Context, filter models.ListFilter) (int64, error)
	CreateFunc  func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc  func(ctx context.Context, id string, user *models.User) (*models.User, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserStore) List(ctx context.Context, filter models.ListFilter) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.User{}, nil
}

func (m *MockUserStore) Count(ctx context.Context, filter models.ListFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

func (m *MockUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = "new-user"
	return user, nil
}

func (m *MockUserStore) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	user.ID = id
	return user, nil
}

func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockSearchFieldStore implements SearchFieldStore for testing
type MockSearchFieldStore struct {
	GetByIDFunc  func(ctx context.Context, id string) (*models.SearchField, error)
	GetByIDsFunc func(ctx context.Context, ids []string) ([]*models.SearchField, error)
	ListFunc     func(ctx context.Context, filter models.ListFilter) ([]*models.SearchField, error)
	CountFunc    func(ctx context.Context, filter models.ListFilter) (int64, error)
	CreateFunc   func(ctx context.Context, field *models.SearchField) (*models.SearchField, error)
	UpdateFunc   func(ctx context.Context, id string, field *models.SearchField) (*models.SearchField, error)
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *MockSearchFieldStore) GetByID(ctx context.Context, id string) (*models.SearchField, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockSearchFieldStore) GetByIDs(ctx context.Context, ids []string) ([]*models.SearchField, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return []*models.SearchField{}, nil
}

func (m *MockSearchFieldStore) List(ctx context.Context, filter models.ListFilter) ([]*models.SearchField, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.SearchField{}, nil
}

func (m *MockSearchFieldStore) Count(ctx context.Context, filter models.ListFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

func (m *MockSearchFieldStore) Create(ctx context.Context, field *models.SearchField) (*models.SearchField, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, field)
	}
	field.ID = "new-field"
	return field, nil
}

func (m *MockSearchFieldStore) Update(ctx context.Context, id string, field *models.SearchField) (*models.SearchField, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, field)
	}
	field.ID = id
	return field, nil
}

func (m *MockSearchFieldStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockSearchTypeStore implements SearchTypeStore for testing
type MockSearchTypeStore struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.SearchType, error)
	ListFunc    func(ctx context.Context, filter models.ListFilter) ([]*models.SearchType, error)
	CountFunc   func(ctx context.Context, filter models.ListFilter) (int64, error)
	CreateFunc  func(ctx context.Context, st *models.SearchType) (*models.SearchType, error)
	UpdateFunc  func(ctx context.Context, id string, st *models.SearchType) (*models.SearchType, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockSearchTypeStore) GetByID(ctx context.Context, id string) (*models.SearchType, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockSearchTypeStore) List(ctx context.Context, filter models.ListFilter) ([]*models.SearchType, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.SearchType{}, nil
}

func (m *MockSearchTypeStore) Count(ctx context.Context, filter models.ListFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

func (m *MockSearchTypeStore) Create(ctx context.Context, st *models.SearchType) (*models.SearchType, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, st)
	}
	st.ID = "new-type"
	return st, nil
}

func (m *MockSearchTypeStore) Update(ctx context.Context, id string, st *models.SearchType) (*models.SearchType, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, st)
	}
	st.ID = id
	return st, nil
}

func (m *MockSearchTypeStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

var testAdminUser = &models.User{ID: "admin-1", Login: "root"}

// newTestServer mounts an admin with views at /admin. When user is nil
// requests are anonymous.
func newTestServer(t *testing.T, user models.CurrentUser, views ...View) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := render.New(logger)
	require.NoError(t, err)

	a := New(Options{Name: "Admin", Path: "/admin"}, renderer, logger, pkglogger.NewAuditLogger(logger), nil)
	for _, v := range views {
		a.AddView(v)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if user != nil {
				req = req.WithContext(auth.WithCurrentUser(req.Context(), user))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Mount("/admin", a.Routes())
	return r
}

func doGet(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func doPost(h http.Handler, target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
