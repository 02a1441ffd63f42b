package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/timebooth/internal/ai"
	"github.com/kozaktomas/timebooth/internal/booth"
	"github.com/kozaktomas/timebooth/internal/catalog"
	"github.com/kozaktomas/timebooth/internal/gallery"
)

// stubTransformer answers every transform with a canned result or error.
type stubTransformer struct {
	result *ai.GeneratedImage
	err    error
}

func (s *stubTransformer) Name() string { return "stub" }

func (s *stubTransformer) Transform(ctx context.Context, still []byte, era catalog.Era) (*ai.GeneratedImage, error) {
	return s.result, s.err
}

// memPersister is an in-memory gallery slot for handler tests.
type memPersister struct {
	saved []gallery.Item
}

func (m *memPersister) Load() ([]gallery.Item, error) { return m.saved, nil }

func (m *memPersister) Save(items []gallery.Item) error {
	m.saved = make([]gallery.Item, len(items))
	copy(m.saved, items)
	return nil
}

// newTestBooth wires a manager and gallery store around a stub transformer.
func newTestBooth(t *testing.T, tr ai.Transformer) (*booth.Manager, *gallery.Store) {
	t.Helper()
	store := gallery.NewStore(&memPersister{})
	m := booth.NewManager(tr, store, time.Hour)
	t.Cleanup(m.Stop)
	return m, store
}

// requestWithChiParams creates a request with chi URL parameters.
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testFramePNG encodes a small solid-color camera frame.
func testFramePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 160, 120))
	for x := range 160 {
		for y := range 120 {
			img.Set(x, y, color.RGBA{90, 120, 180, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// captureRequest builds a multipart capture request for a session.
func captureRequest(t *testing.T, sessionID string, frame []byte, filterID string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("frame", "frame.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(frame)
	if filterID != "" {
		mw.WriteField("filter", filterID)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/booth/"+sessionID+"/capture", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return requestWithChiParams(req, map[string]string{"id": sessionID})
}

// jsonRequest builds a JSON request with a chi id parameter.
func jsonRequest(t *testing.T, method, path, sessionID string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return requestWithChiParams(req, map[string]string{"id": sessionID})
}

// parseJSONResponse parses a JSON response body into the target type.
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code.
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type.
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// createSession drives the Create endpoint and returns the session id.
func createSession(t *testing.T, h *BoothHandler) string {
	t.Helper()
	recorder := httptest.NewRecorder()
	h.Create(recorder, httptest.NewRequest("POST", "/api/v1/booth", nil))
	assertStatusCode(t, recorder, http.StatusCreated)

	var resp struct {
		ID string `json:"id"`
	}
	parseJSONResponse(t, recorder, &resp)
	if resp.ID == "" {
		t.Fatal("expected session id in create response")
	}
	return resp.ID
}

// driveToResult takes a session through capture, era selection and travel.
func driveToResult(t *testing.T, h *BoothHandler, sessionID, eraID string) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.Capture(rec, captureRequest(t, sessionID, testFramePNG(t), "none"))
	assertStatusCode(t, rec, http.StatusOK)

	rec = httptest.NewRecorder()
	h.SelectEra(rec, jsonRequest(t, "POST", "/api/v1/booth/"+sessionID+"/era", sessionID,
		map[string]string{"eraId": eraID}))
	assertStatusCode(t, rec, http.StatusOK)

	rec = httptest.NewRecorder()
	h.Travel(rec, jsonRequest(t, "POST", "/api/v1/booth/"+sessionID+"/travel", sessionID, nil))
	assertStatusCode(t, rec, http.StatusOK)
}
