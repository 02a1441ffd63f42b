// Package gallery holds saved booth results. The in-memory collection is the
// source of truth for the running process; every mutation is followed by a
// full persist of the collection to the configured slot. Persistence problems
// degrade to warnings and never lose the current session's items.
package gallery

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrStorageWrite reports that a mutation could not be flushed to the
// persistence slot. The in-memory collection still reflects the mutation.
var ErrStorageWrite = errors.New("gallery storage write failed")

// Item is a saved booth result. Field names match the persisted slot format.
type Item struct {
	ID        string `json:"id"`
	ImageURL  string `json:"imageUrl"`
	Caption   string `json:"caption"`
	EraID     string `json:"eraId"`
	Timestamp int64  `json:"timestamp"`
}

// NewItemID derives a unique item id from the creation time.
func NewItemID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// DataURL encodes an image payload as a data URL, the format stored in
// Item.ImageURL.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL extracts the MIME type and raw bytes from a data URL.
func DecodeDataURL(url string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URL")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data URL payload: %w", err)
	}
	return mimeType, data, nil
}

// Persister is the durable slot holding the serialized collection.
type Persister interface {
	// Load reads the persisted collection. Absent data yields (nil, nil).
	Load() ([]Item, error)
	// Save overwrites the slot with the full collection.
	Save(items []Item) error
}

// Store is the ordered, newest-first collection of saved items.
type Store struct {
	mu        sync.Mutex
	items     []Item
	persister Persister
}

// NewStore loads the persisted collection into a new store. Corrupt or absent
// persisted data yields an empty collection, never an error.
func NewStore(p Persister) *Store {
	items, err := p.Load()
	if err != nil {
		log.Printf("gallery: discarding unreadable persisted collection: %v", err)
		items = nil
	}
	return &Store{items: items, persister: p}
}

// Items returns a copy of the collection, newest first.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Len returns the collection size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Append prepends the item (newest-first invariant) and persists the
// collection. A failed persist returns ErrStorageWrite but the item stays in
// the collection.
func (s *Store) Append(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]Item{item}, s.items...)
	return s.flush()
}

// Remove deletes the item with the given id, keeping the relative order of
// the rest. Removing an unknown id is a no-op and does not touch the slot.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.flush()
		}
	}
	return nil
}

// flush persists the full collection. Caller holds the lock.
func (s *Store) flush() error {
	if err := s.persister.Save(s.items); err != nil {
		log.Printf("gallery: %v: %v", ErrStorageWrite, err)
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}
