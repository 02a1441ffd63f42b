package web

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/timebooth/internal/web/handlers"
	"github.com/kozaktomas/timebooth/internal/web/static"
)

func (s *Server) setupRoutes() {
	boothHandler := handlers.NewBoothHandler(s.booths)
	galleryHandler := handlers.NewGalleryHandler(s.store)
	catalogHandler := handlers.NewCatalogHandler()

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Catalogs
		r.Get("/eras", catalogHandler.ListEras)
		r.Get("/filters", catalogHandler.ListFilters)

		// Booth workflow
		r.Post("/booth", boothHandler.Create)
		r.Get("/booth/{id}", boothHandler.GetState)
		r.Delete("/booth/{id}", boothHandler.Close)
		r.Post("/booth/{id}/capture", boothHandler.Capture)
		r.Post("/booth/{id}/era", boothHandler.SelectEra)
		r.Post("/booth/{id}/travel", boothHandler.Travel)
		r.Post("/booth/{id}/save", boothHandler.Save)
		r.Post("/booth/{id}/confirm", boothHandler.Confirm)
		r.Post("/booth/{id}/cancel", boothHandler.CancelSave)
		r.Post("/booth/{id}/retake", boothHandler.Retake)
		r.Post("/booth/{id}/error", boothHandler.ReportError)
		r.Post("/booth/{id}/error/dismiss", boothHandler.DismissError)
		r.Get("/booth/{id}/still", boothHandler.Still)
		r.Get("/booth/{id}/result", boothHandler.Result)
		r.Get("/booth/{id}/result/download", boothHandler.DownloadResult)

		// Gallery
		r.Get("/gallery", galleryHandler.List)
		r.Delete("/gallery/{id}", galleryHandler.Remove)
		r.Get("/gallery/{id}/image", galleryHandler.Image)
		r.Get("/gallery/{id}/download", galleryHandler.Download)
	})

	// Serve the embedded frontend (SPA).
	s.router.Get("/*", s.serveSPA)
}

// serveSPA serves the single-page application.
func (s *Server) serveSPA(w http.ResponseWriter, r *http.Request) {
	fs := static.GetFileSystem()
	path := r.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	f, err := fs.Open(path)
	if err != nil {
		// SPA routing: unknown paths fall back to index.html.
		f, err = fs.Open("/index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		path = "/index.html"
	}
	defer f.Close()

	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(path, ".html"):
		contentType = "text/html; charset=utf-8"
	case strings.HasSuffix(path, ".css"):
		contentType = "text/css; charset=utf-8"
	case strings.HasSuffix(path, ".js"):
		contentType = "application/javascript; charset=utf-8"
	case strings.HasSuffix(path, ".svg"):
		contentType = "image/svg+xml"
	case strings.HasSuffix(path, ".png"):
		contentType = "image/png"
	case strings.HasSuffix(path, ".ico"):
		contentType = "image/x-icon"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, f)
}
