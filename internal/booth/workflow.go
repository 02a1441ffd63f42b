// Package booth implements the capture/transform/save workflow. A Workflow is
// an explicit state machine: every screen the booth can show corresponds to
// exactly one state, so a generated image without a captured still or similar
// impossible combinations cannot be represented.
package booth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kozaktomas/timebooth/internal/ai"
	"github.com/kozaktomas/timebooth/internal/camera"
	"github.com/kozaktomas/timebooth/internal/capture"
	"github.com/kozaktomas/timebooth/internal/catalog"
	"github.com/kozaktomas/timebooth/internal/gallery"
)

// State identifies the current workflow screen.
type State string

// Workflow states, in the order a successful run visits them.
const (
	StateLive          State = "live"
	StateCaptured      State = "captured"
	StateEraSelected   State = "era_selected"
	StateTransforming  State = "transforming"
	StateResult        State = "result"
	StateSaveComposing State = "save_composing"
)

// ErrorKind classifies recoverable workflow errors surfaced to the user.
type ErrorKind string

// Error kinds. None of them halt the workflow; each leaves the user in a
// state from which the triggering action can be retried.
const (
	ErrorDeviceAccessDenied ErrorKind = "device_access_denied"
	ErrorNoImageReturned    ErrorKind = "no_image_returned"
	ErrorRequestFailed      ErrorKind = "request_failed"
	ErrorStorageWriteFailed ErrorKind = "storage_write_failed"
)

// WorkflowError is a dismissible, non-blocking user-facing message.
type WorkflowError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Transition guard violations.
var (
	ErrInvalidTransition = errors.New("action not available in current state")
	ErrTransformInFlight = errors.New("a transform request is already in flight")
	ErrEraNotFound       = errors.New("unknown era")
	ErrFilterNotFound    = errors.New("unknown filter")
)

// Workflow is a single booth run. All methods are safe for concurrent use;
// the lock is released while a transform request is in flight so state can be
// observed (and retake() invoked) during it.
type Workflow struct {
	mu          sync.Mutex
	state       State
	transformer ai.Transformer
	store       *gallery.Store
	camera      *camera.Session

	still   []byte
	era     *catalog.Era
	result  *ai.GeneratedImage
	lastErr *WorkflowError
	saved   bool

	// epoch invalidates an in-flight transform after a retake.
	epoch int
}

// New creates a workflow in the Live state. The camera session is optional:
// in web mode the browser owns the device and frames arrive as uploads.
func New(transformer ai.Transformer, store *gallery.Store) *Workflow {
	return &Workflow{
		state:       StateLive,
		transformer: transformer,
		store:       store,
	}
}

// AttachCamera binds a camera session that Retake restarts and Capture stops.
func (w *Workflow) AttachCamera(session *camera.Session) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.camera = session
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Still returns the captured still, if any.
func (w *Workflow) Still() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.still
}

// Era returns the selected era, if any.
func (w *Workflow) Era() (catalog.Era, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.era == nil {
		return catalog.Era{}, false
	}
	return *w.era, true
}

// Result returns the generated image, if any.
func (w *Workflow) Result() *ai.GeneratedImage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// LastError returns the current user-facing error, if any.
func (w *Workflow) LastError() *WorkflowError {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Saved reports whether the current result has been committed to the gallery.
func (w *Workflow) Saved() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saved
}

// DismissError clears the current user-facing error message.
func (w *Workflow) DismissError() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastErr = nil
}

// ReportDeviceError records a camera access failure as a dismissible message.
// The workflow stays in Live; the user retries by re-entering the capture
// view.
func (w *Workflow) ReportDeviceError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastErr = &WorkflowError{
		Kind:    ErrorDeviceAccessDenied,
		Message: fmt.Sprintf("camera unavailable: %v", err),
	}
}

// Capture transitions Live -> Captured. The frame is cropped to the largest
// centered square with the filter baked in; the camera preview (when a
// session is attached) is released because the still replaces it.
func (w *Workflow) Capture(frame []byte, filter catalog.VisualFilter) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateLive {
		return fmt.Errorf("%w: capture in %s", ErrInvalidTransition, w.state)
	}

	still, err := capture.SquareStill(frame, filter)
	if err != nil {
		return fmt.Errorf("capturing still: %w", err)
	}

	w.still = still
	w.state = StateCaptured
	if w.camera != nil {
		w.camera.Stop()
	}
	return nil
}

// CaptureFromCamera grabs the current frame from the attached camera session
// and captures it. Used by the CLI path.
func (w *Workflow) CaptureFromCamera(ctx context.Context, filter catalog.VisualFilter) error {
	w.mu.Lock()
	session := w.camera
	w.mu.Unlock()

	if session == nil {
		return errors.New("no camera session attached")
	}
	frame, err := session.Frame(ctx)
	if err != nil {
		return err
	}
	return w.Capture(frame, filter)
}

// SelectEra transitions Captured -> EraSelected. Reselecting a different era
// before submission overwrites the pending selection and stays in
// EraSelected. Pure selection, no side effect.
func (w *Workflow) SelectEra(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateCaptured && w.state != StateEraSelected {
		return fmt.Errorf("%w: selectEra in %s", ErrInvalidTransition, w.state)
	}

	era, ok := catalog.EraByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrEraNotFound, id)
	}
	w.era = &era
	w.state = StateEraSelected
	return nil
}

// Travel transitions EraSelected -> Transforming and submits exactly one
// transform request. Disabled unless a still and an era are present and no
// request is in flight. On failure the workflow reverts to EraSelected with
// still and era retained, so the user can retry without re-capturing or
// re-selecting.
func (w *Workflow) Travel(ctx context.Context) error {
	w.mu.Lock()
	if w.state == StateTransforming {
		w.mu.Unlock()
		return ErrTransformInFlight
	}
	if w.state != StateEraSelected || w.still == nil || w.era == nil {
		state := w.state
		w.mu.Unlock()
		return fmt.Errorf("%w: travel in %s", ErrInvalidTransition, state)
	}
	still := w.still
	era := *w.era
	epoch := w.epoch
	w.state = StateTransforming
	w.lastErr = nil
	w.mu.Unlock()

	// Single outstanding request, no retry, no timeout: the workflow sits in
	// Transforming until the transport resolves or fails.
	generated, err := w.transformer.Transform(ctx, still, era)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.epoch != epoch || w.state != StateTransforming {
		// Retake happened mid-flight; the run this request belonged to no
		// longer exists.
		return nil
	}

	if err != nil {
		w.state = StateEraSelected
		w.lastErr = classifyTransformError(err)
		return err
	}

	w.result = generated
	w.state = StateResult
	w.saved = false
	return nil
}

// classifyTransformError maps a gateway error to its user-facing kind. Both
// kinds surface as the same message class but stay distinguishable.
func classifyTransformError(err error) *WorkflowError {
	kind := ErrorRequestFailed
	if errors.Is(err, ai.ErrNoImageReturned) {
		kind = ErrorNoImageReturned
	}
	return &WorkflowError{
		Kind:    kind,
		Message: "time travel failed, please try again",
	}
}

// Save transitions Result -> SaveComposing, opening the caption entry step.
// The gallery is not touched yet.
func (w *Workflow) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateResult || w.saved {
		return fmt.Errorf("%w: save in %s", ErrInvalidTransition, w.state)
	}
	w.state = StateSaveComposing
	return nil
}

// Confirm commits the pending save and returns to Result. A blank caption
// falls back to the era's label. A failed persist is returned as a
// non-fatal ErrStorageWrite; the item is still in the in-memory gallery and
// the save counts as committed.
func (w *Workflow) Confirm(caption string) (gallery.Item, error) {
	w.mu.Lock()

	if w.state != StateSaveComposing {
		state := w.state
		w.mu.Unlock()
		return gallery.Item{}, fmt.Errorf("%w: confirm in %s", ErrInvalidTransition, state)
	}

	if caption == "" {
		caption = w.era.Label
	}
	now := time.Now()
	item := gallery.Item{
		ID:        gallery.NewItemID(now),
		ImageURL:  gallery.DataURL(w.result.MIMEType, w.result.Data),
		Caption:   caption,
		EraID:     w.era.ID,
		Timestamp: now.UnixMilli(),
	}

	w.state = StateResult
	w.saved = true
	store := w.store
	w.mu.Unlock()

	if err := store.Append(item); err != nil {
		w.mu.Lock()
		w.lastErr = &WorkflowError{
			Kind:    ErrorStorageWriteFailed,
			Message: "saved for this session, but persisting the gallery failed",
		}
		w.mu.Unlock()
		return item, err
	}
	return item, nil
}

// CancelSave discards the pending caption and returns to Result without
// mutating the gallery.
func (w *Workflow) CancelSave() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateSaveComposing {
		return fmt.Errorf("%w: cancel in %s", ErrInvalidTransition, w.state)
	}
	w.state = StateResult
	return nil
}

// Retake resets the workflow to Live from any state: still, result, era and
// error are all cleared and a fresh camera session is acquired when one is
// attached. A camera failure is recorded as a dismissible message, not an
// error — the booth stays usable.
func (w *Workflow) Retake(ctx context.Context) {
	w.mu.Lock()
	w.state = StateLive
	w.still = nil
	w.era = nil
	w.result = nil
	w.lastErr = nil
	w.saved = false
	w.epoch++
	session := w.camera
	w.mu.Unlock()

	if session != nil {
		if err := session.Start(ctx); err != nil {
			w.ReportDeviceError(err)
		}
	}
}

// Snapshot is the wire representation of the workflow for the frontend.
type Snapshot struct {
	State     State          `json:"state"`
	EraID     string         `json:"eraId,omitempty"`
	HasStill  bool           `json:"hasStill"`
	HasResult bool           `json:"hasResult"`
	Saved     bool           `json:"saved"`
	Error     *WorkflowError `json:"error,omitempty"`
}

// Snapshot returns the current state for rendering.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		State:     w.state,
		HasStill:  w.still != nil,
		HasResult: w.result != nil,
		Saved:     w.saved,
		Error:     w.lastErr,
	}
	if w.era != nil {
		snap.EraID = w.era.ID
	}
	return snap
}
