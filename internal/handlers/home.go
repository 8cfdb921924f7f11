package handlers

import (
	"net/http"

	"github.com/BradenHooton/searchdesk/internal/render"
)

// HomeHandler serves the landing page
type HomeHandler struct {
	renderer *render.Renderer
}

func NewHomeHandler(renderer *render.Renderer) *HomeHandler {
	return &HomeHandler{renderer: renderer}
}

// Index handles GET /
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "index.html", render.Page{})
}

// NotFound renders the 404 page
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.Error(w, r, http.StatusNotFound, "The page you asked for does not exist.")
}
