package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/timebooth/internal/catalog"
)

func TestCatalogHandler_ListEras(t *testing.T) {
	h := NewCatalogHandler()

	rec := httptest.NewRecorder()
	h.ListEras(rec, httptest.NewRequest("GET", "/api/v1/eras", nil))
	assertStatusCode(t, rec, http.StatusOK)
	assertContentType(t, rec, "application/json")

	var resp struct {
		Eras []catalog.Era `json:"eras"`
	}
	parseJSONResponse(t, rec, &resp)
	if len(resp.Eras) != 8 {
		t.Errorf("expected 8 eras, got %d", len(resp.Eras))
	}
}

func TestCatalogHandler_ListFilters(t *testing.T) {
	h := NewCatalogHandler()

	rec := httptest.NewRecorder()
	h.ListFilters(rec, httptest.NewRequest("GET", "/api/v1/filters", nil))
	assertStatusCode(t, rec, http.StatusOK)

	var resp struct {
		Filters []catalog.VisualFilter `json:"filters"`
	}
	parseJSONResponse(t, rec, &resp)
	if len(resp.Filters) != 6 {
		t.Errorf("expected 6 filters, got %d", len(resp.Filters))
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest("GET", "/api/v1/health", nil))
	assertStatusCode(t, rec, http.StatusOK)

	var resp map[string]string
	parseJSONResponse(t, rec, &resp)
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
}
