package handlers

import (
	"net/http"

	"github.com/kozaktomas/timebooth/internal/catalog"
)

// CatalogHandler serves the static era and filter tables.
type CatalogHandler struct{}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListEras returns all selectable eras.
func (h *CatalogHandler) ListEras(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"eras": catalog.Eras(),
	})
}

// ListFilters returns all visual filters.
func (h *CatalogHandler) ListFilters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"filters": catalog.Filters(),
	})
}
