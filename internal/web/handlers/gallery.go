package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/timebooth/internal/gallery"
)

// GalleryHandler serves the saved-results gallery.
type GalleryHandler struct {
	store *gallery.Store
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(store *gallery.Store) *GalleryHandler {
	return &GalleryHandler{store: store}
}

// List returns the full collection, newest first.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"items": h.store.Items(),
	})
}

// Remove deletes one item. Removing an unknown id is a no-op, mirroring the
// store contract, so this always answers 200.
func (h *GalleryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Remove(id); err != nil {
		// Persist failed but the in-memory collection is updated; report the
		// degraded persistence without failing the delete.
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "removed",
			"warning": "gallery persistence failed, change is in-memory only",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// item resolves an item by URL param, answering 404 on a miss.
func (h *GalleryHandler) item(w http.ResponseWriter, r *http.Request) (gallery.Item, bool) {
	id := chi.URLParam(r, "id")
	item, ok := h.store.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "gallery item not found")
		return gallery.Item{}, false
	}
	return item, true
}

// Image serves the item's image payload inline.
func (h *GalleryHandler) Image(w http.ResponseWriter, r *http.Request) {
	item, ok := h.item(w, r)
	if !ok {
		return
	}
	mime, data, err := gallery.DecodeDataURL(item.ImageURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "stored image payload is unreadable")
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Download exports the item as a standalone image file named after its id.
func (h *GalleryHandler) Download(w http.ResponseWriter, r *http.Request) {
	item, ok := h.item(w, r)
	if !ok {
		return
	}
	mime, data, err := gallery.DecodeDataURL(item.ImageURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "stored image payload is unreadable")
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="time-travel-%s.jpg"`, item.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
