package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/searchdesk/internal/services"
	"github.com/go-chi/chi/v5"
)

// ProductCatalogLoader loads the data behind the product overview
type ProductCatalogLoader interface {
	ProductCatalog(ctx context.Context) (*services.ProductCatalog, error)
}

// ProductView is a read-only overview of search types and the products offering them
type ProductView struct {
	catalog ProductCatalogLoader
	admin   *Admin
}

func NewProductView(catalog ProductCatalogLoader) *ProductView {
	return &ProductView{catalog: catalog}
}

func (v *ProductView) Name() string     { return "Product" }
func (v *ProductView) Endpoint() string { return "product" }

func (v *ProductView) Register(r chi.Router, a *Admin) {
	v.admin = a
	r.Get("/", v.index)
}

func (v *ProductView) index(w http.ResponseWriter, r *http.Request) {
	catalog, err := v.catalog.ProductCatalog(r.Context())
	if err != nil {
		v.admin.logger.Error("failed to load product catalog", slog.Any("error", err))
		v.admin.renderer.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	v.admin.render(w, r, http.StatusOK, "admin/productview.html", v.Name(), v.Endpoint(), catalog)
}
