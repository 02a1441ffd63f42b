package booth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/timebooth/internal/ai"
	"github.com/kozaktomas/timebooth/internal/gallery"
)

// DefaultSessionTTL is how long an idle booth session is kept before the
// janitor drops it.
const DefaultSessionTTL = 30 * time.Minute

const janitorInterval = time.Minute

type boothSession struct {
	workflow *Workflow
	lastSeen time.Time
}

// Manager owns the active booth sessions of the web server, one workflow per
// visitor. Idle sessions expire; the gallery is shared across all of them.
type Manager struct {
	transformer ai.Transformer
	store       *gallery.Store
	ttl         time.Duration

	mu       sync.Mutex
	sessions map[string]*boothSession
	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager and starts its expiry janitor.
func NewManager(transformer ai.Transformer, store *gallery.Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	m := &Manager{
		transformer: transformer,
		store:       store,
		ttl:         ttl,
		sessions:    make(map[string]*boothSession),
		stop:        make(chan struct{}),
	}
	go m.janitor()
	return m
}

// Create starts a new booth session and returns its id and workflow.
func (m *Manager) Create() (string, *Workflow) {
	id := uuid.NewString()
	wf := New(m.transformer, m.store)

	m.mu.Lock()
	m.sessions[id] = &boothSession{workflow: wf, lastSeen: time.Now()}
	m.mu.Unlock()

	return id, wf
}

// Get returns the workflow for a session id and refreshes its idle timer.
func (m *Manager) Get(id string) (*Workflow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = time.Now()
	return s.workflow, true
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stop terminates the expiry janitor.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.expire(now)
		}
	}
}

func (m *Manager) expire(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
