package render

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/BradenHooton/searchdesk/internal/auth"
	"github.com/BradenHooton/searchdesk/internal/models"
	"github.com/shopspring/decimal"
)

//go:embed templates
var templateFS embed.FS

// shared templates parsed into every page
var sharedTemplates = []string{"templates/layout.html", "templates/partials.html"}

var attrNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

// MenuItem is one entry of the navigation bar under the site links
type MenuItem struct {
	Label  string
	URL    string
	Active bool
}

// Page is the data every template receives
type Page struct {
	Title string
	User  models.CurrentUser
	Menu  []MenuItem
	Data  any
}

// Renderer executes the embedded page templates
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// New parses every page under templates/ together with the shared layout
func New(logger *slog.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"attrs": attrs,
		"price": formatPrice,
		"join":  strings.Join,
	}

	r := &Renderer{pages: make(map[string]*template.Template), logger: logger}

	err := fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		for _, shared := range sharedTemplates {
			if p == shared {
				return nil
			}
		}

		name := strings.TrimPrefix(p, "templates/")
		files := append(append([]string{}, sharedTemplates...), p)
		tpl, err := template.New(path.Base(p)).Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// HTML renders the named page. The current user is taken from the request
// context when the page does not carry one.
func (r *Renderer) HTML(w http.ResponseWriter, req *http.Request, status int, name string, page Page) {
	tpl, ok := r.pages[name]
	if !ok {
		r.logger.Error("unknown template", slog.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if page.User == nil {
		page.User = auth.CurrentUser(req.Context())
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		r.logger.Error("failed to render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the error page with the status text as title
func (r *Renderer) Error(w http.ResponseWriter, req *http.Request, status int, message string) {
	r.HTML(w, req, status, "error.html", Page{
		Title: http.StatusText(status),
		Data:  message,
	})
}

// attrs renders extra input attributes. Names that are not plain identifiers are dropped.
func attrs(m map[string]string) template.HTMLAttr {
	if len(m) == 0 {
		return ""
	}

	names := make([]string, 0, len(m))
	for name := range m {
		if attrNamePattern.MatchString(name) && !strings.HasPrefix(strings.ToLower(name), "on") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, ` %s="%s"`, name, html.EscapeString(m[name]))
	}
	return template.HTMLAttr(b.String())
}

func formatPrice(d decimal.Decimal) string {
	return d.StringFixed(models.PricePlaces)
}
