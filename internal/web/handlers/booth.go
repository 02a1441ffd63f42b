package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/timebooth/internal/booth"
	"github.com/kozaktomas/timebooth/internal/catalog"
	"github.com/kozaktomas/timebooth/internal/gallery"
)

// maxFrameSize caps uploaded camera frames (16 MB is plenty for a webcam
// snapshot).
const maxFrameSize = 16 << 20

// BoothHandler drives the capture/transform/save workflow over HTTP. Each
// visitor gets a session whose id addresses their workflow instance.
type BoothHandler struct {
	booths *booth.Manager
}

// NewBoothHandler creates a new booth handler.
func NewBoothHandler(booths *booth.Manager) *BoothHandler {
	return &BoothHandler{booths: booths}
}

// sessionResponse is the body returned by workflow-mutating endpoints.
type sessionResponse struct {
	ID       string         `json:"id"`
	Snapshot booth.Snapshot `json:"snapshot"`
}

// Create starts a new booth session.
func (h *BoothHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, wf := h.booths.Create()
	respondJSON(w, http.StatusCreated, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
}

// workflow resolves the workflow for the request's session id, answering 404
// when the session is unknown or expired.
func (h *BoothHandler) workflow(w http.ResponseWriter, r *http.Request) (string, *booth.Workflow, bool) {
	id := chi.URLParam(r, "id")
	wf, ok := h.booths.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "booth session not found")
		return "", nil, false
	}
	return id, wf, true
}

// GetState returns the current workflow snapshot.
func (h *BoothHandler) GetState(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
}

// Close drops the booth session.
func (h *BoothHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.booths.Remove(id)
	respondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// Capture accepts a camera frame (multipart field "frame") plus a filter id
// and captures the square still.
func (h *BoothHandler) Capture(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxFrameSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	filterID := r.FormValue("filter")
	if filterID == "" {
		filterID = "none"
	}
	filter, found := catalog.FilterByID(filterID)
	if !found {
		respondError(w, http.StatusBadRequest, "unknown filter")
		return
	}

	file, _, err := r.FormFile("frame")
	if err != nil {
		respondError(w, http.StatusBadRequest, "frame file is required")
		return
	}
	defer file.Close()

	frame, err := io.ReadAll(io.LimitReader(file, maxFrameSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read frame")
		return
	}

	if err := wf.Capture(frame, filter); err != nil {
		if errors.Is(err, booth.ErrInvalidTransition) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
}

type selectEraRequest struct {
	EraID string `json:"eraId"`
}

// SelectEra records the pending era selection.
func (h *BoothHandler) SelectEra(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	var req selectEraRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if err := wf.SelectEra(req.EraID); err != nil {
		switch {
		case errors.Is(err, booth.ErrEraNotFound):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, booth.ErrInvalidTransition):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
}

// Travel submits the transform request and blocks until it resolves. Guard
// violations answer 409; a failed generation answers 502 with the error kind
// embedded in the snapshot, the workflow already back in era_selected.
func (h *BoothHandler) Travel(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	if err := wf.Travel(r.Context()); err != nil {
		if errors.Is(err, booth.ErrInvalidTransition) || errors.Is(err, booth.ErrTransformInFlight) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondJSON(w, http.StatusBadGateway, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
}

// Save opens the caption-entry step.
func (h *BoothHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	if err := wf.Save(); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
}

type confirmRequest struct {
	Caption string `json:"caption"`
}

type confirmResponse struct {
	ID       string         `json:"id"`
	Snapshot booth.Snapshot `json:"snapshot"`
	Item     gallery.Item   `json:"item"`
}

// Confirm commits the pending save. A storage failure still commits the item
// for this session; the warning travels in the snapshot.
func (h *BoothHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	var req confirmRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	item, err := wf.Confirm(req.Caption)
	if err != nil && !errors.Is(err, gallery.ErrStorageWrite) {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, confirmResponse{ID: id, Snapshot: wf.Snapshot(), Item: item})
}

// CancelSave discards the pending caption.
func (h *BoothHandler) CancelSave(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	if err := wf.CancelSave(); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
}

// Retake resets the workflow to the live view.
func (h *BoothHandler) Retake(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	wf.Retake(r.Context())
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
}

// ReportError records a browser-side camera failure so the workflow can show
// a dismissible message. The booth stays in the live view for a retry.
func (h *BoothHandler) ReportError(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	wf.ReportDeviceError(errors.New(body.Message))
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
}

// DismissError clears the current user-facing message.
func (h *BoothHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	wf.DismissError()
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: wf.Snapshot()})
}

// Still serves the captured still of the session.
func (h *BoothHandler) Still(w http.ResponseWriter, r *http.Request) {
	_, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	still := wf.Still()
	if still == nil {
		respondError(w, http.StatusNotFound, "no captured still")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(still)
}

// Result serves the generated image of the session.
func (h *BoothHandler) Result(w http.ResponseWriter, r *http.Request) {
	_, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	res := wf.Result()
	if res == nil {
		respondError(w, http.StatusNotFound, "no generated result")
		return
	}
	w.Header().Set("Content-Type", res.MIMEType)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// DownloadResult exports the in-progress result under its fixed default name.
func (h *BoothHandler) DownloadResult(w http.ResponseWriter, r *http.Request) {
	_, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	res := wf.Result()
	if res == nil {
		respondError(w, http.StatusNotFound, "no generated result")
		return
	}
	w.Header().Set("Content-Type", res.MIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="time-travel-result.jpg"`)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}
