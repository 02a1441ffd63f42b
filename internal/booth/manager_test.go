package booth

import (
	"testing"
	"time"

	"github.com/kozaktomas/timebooth/internal/gallery"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store := gallery.NewStore(&memPersister{})
	m := NewManager(&fakeTransformer{}, store, time.Hour)
	t.Cleanup(m.Stop)
	return m
}

func TestManager_CreateAndGet(t *testing.T) {
	m := newTestManager(t)

	id, wf := m.Create()
	if id == "" {
		t.Fatal("expected non-empty session id")
	}
	if wf.State() != StateLive {
		t.Errorf("new session must start live, got %s", wf.State())
	}

	got, ok := m.Get(id)
	if !ok {
		t.Fatal("expected to find created session")
	}
	if got != wf {
		t.Error("Get must return the same workflow instance")
	}
}

func TestManager_GetUnknown(t *testing.T) {
	m := newTestManager(t)
	if _, ok := m.Get("nope"); ok {
		t.Error("expected miss for unknown session id")
	}
}

func TestManager_Remove(t *testing.T) {
	m := newTestManager(t)
	id, _ := m.Create()

	m.Remove(id)
	if _, ok := m.Get(id); ok {
		t.Error("expected session gone after Remove")
	}
	if m.Count() != 0 {
		t.Errorf("expected 0 sessions, got %d", m.Count())
	}
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := newTestManager(t)
	idA, wfA := m.Create()
	_, wfB := m.Create()

	if err := wfA.Capture(testFrame(t), identityFilter(t)); err != nil {
		t.Fatalf("capture: %v", err)
	}

	if wfB.State() != StateLive {
		t.Error("capturing in one session must not affect another")
	}
	got, _ := m.Get(idA)
	if got.State() != StateCaptured {
		t.Errorf("expected session A captured, got %s", got.State())
	}
}

func TestManager_Expire(t *testing.T) {
	m := newTestManager(t)
	id, _ := m.Create()

	// Force everything past the idle deadline.
	m.expire(time.Now().Add(2 * time.Hour))

	if _, ok := m.Get(id); ok {
		t.Error("expected idle session to be expired")
	}
}

func TestManager_GetRefreshesIdleTimer(t *testing.T) {
	m := newTestManager(t)
	id, _ := m.Create()

	m.mu.Lock()
	m.sessions[id].lastSeen = time.Now().Add(-50 * time.Minute)
	m.mu.Unlock()

	// Touch the session, then run the janitor just past the original deadline.
	m.Get(id)
	m.expire(time.Now().Add(30 * time.Minute))

	if _, ok := m.Get(id); !ok {
		t.Error("recently used session must survive the janitor")
	}
}

func TestManager_StopIsIdempotent(t *testing.T) {
	store := gallery.NewStore(&memPersister{})
	m := NewManager(&fakeTransformer{}, store, time.Hour)
	m.Stop()
	m.Stop()
}
