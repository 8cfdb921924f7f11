package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BradenHooton/searchdesk/internal/auth"
	"github.com/BradenHooton/searchdesk/internal/render"
	pkghttp "github.com/BradenHooton/searchdesk/pkg/http"
	pkglogger "github.com/BradenHooton/searchdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// View is a page group mounted under the admin at /<endpoint>/
type View interface {
	Name() string
	Endpoint() string
	Register(r chi.Router, a *Admin)
}

// Counter is implemented by views that can report how many records they manage
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Options configures an Admin
type Options struct {
	Name      string
	Path      string
	LoginPath string
}

// Admin groups views behind a shared index and login requirement
type Admin struct {
	opts     Options
	views    []View
	renderer *render.Renderer
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
	ips      *pkghttp.IPResolver
}

// New creates an Admin. ips may be nil to trust no proxies.
func New(opts Options, renderer *render.Renderer, logger *slog.Logger, audit *pkglogger.AuditLogger, ips *pkghttp.IPResolver) *Admin {
	if opts.Name == "" {
		opts.Name = "Admin"
	}
	opts.Path = "/" + strings.Trim(opts.Path, "/")
	if opts.LoginPath == "" {
		opts.LoginPath = "/login/"
	}
	if ips == nil {
		ips = pkghttp.NewIPResolver(nil)
	}

	return &Admin{
		opts:     opts,
		renderer: renderer,
		logger:   logger,
		audit:    audit,
		ips:      ips,
	}
}

// AddView registers v. Views are listed in the order they are added.
func (a *Admin) AddView(v View) {
	a.views = append(a.views, v)
}

// URL returns the absolute path of a view endpoint, with a trailing slash
func (a *Admin) URL(endpoint string) string {
	if endpoint == "" {
		return a.opts.Path + "/"
	}
	return a.opts.Path + "/" + endpoint + "/"
}

// Routes returns the admin router, to be mounted at the admin path
func (a *Admin) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAuthenticated(a.opts.LoginPath))

	r.Get("/", a.index)
	for _, v := range a.views {
		r.Route("/"+v.Endpoint(), func(r chi.Router) {
			v.Register(r, a)
		})
	}

	return r
}

type indexEntry struct {
	Name    string
	URL     string
	Count   int64
	Counted bool
}

type indexPage struct {
	Name    string
	Entries []indexEntry
}

func (a *Admin) index(w http.ResponseWriter, r *http.Request) {
	page := indexPage{Name: a.opts.Name}

	for _, v := range a.views {
		entry := indexEntry{Name: v.Name(), URL: a.URL(v.Endpoint())}
		if c, ok := v.(Counter); ok {
			count, err := c.Count(r.Context())
			if err != nil {
				a.logger.Error("failed to count records", slog.String("view", v.Endpoint()), slog.Any("error", err))
				a.renderer.Error(w, r, http.StatusInternalServerError, "")
				return
			}
			entry.Count = count
			entry.Counted = true
		}
		page.Entries = append(page.Entries, entry)
	}

	a.render(w, r, http.StatusOK, "admin/index.html", a.opts.Name, "", page)
}

// menu lists the admin index and every view, marking active
func (a *Admin) menu(active string) []render.MenuItem {
	items := make([]render.MenuItem, 0, len(a.views)+1)
	items = append(items, render.MenuItem{Label: a.opts.Name, URL: a.URL(""), Active: active == ""})
	for _, v := range a.views {
		items = append(items, render.MenuItem{Label: v.Name(), URL: a.URL(v.Endpoint()), Active: active == v.Endpoint()})
	}
	return items
}

func (a *Admin) render(w http.ResponseWriter, r *http.Request, status int, name, title, active string, data any) {
	a.renderer.HTML(w, r, status, name, render.Page{
		Title: title,
		Menu:  a.menu(active),
		Data:  data,
	})
}

func (a *Admin) logAction(r *http.Request, eventType, resource, recordID string) {
	if a.audit == nil {
		return
	}
	a.audit.LogAdminAction(pkglogger.AdminAction{
		EventType: eventType,
		ActorID:   auth.CurrentUser(r.Context()).GetID(),
		Resource:  resource,
		RecordID:  recordID,
		IPAddress: a.ips.ClientIP(r),
	})
}
