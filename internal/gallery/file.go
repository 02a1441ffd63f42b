package gallery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FilePersister stores the serialized collection in a single JSON file.
type FilePersister struct {
	Path string
}

// Load reads the collection from the file. A missing file yields an empty
// collection; unreadable or malformed content is an error the store treats as
// "no saved items".
func (p *FilePersister) Load() ([]Item, error) {
	data, err := os.ReadFile(p.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading gallery file: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing gallery file: %w", err)
	}
	return items, nil
}

// Save overwrites the file with the full collection. The write goes through a
// temp file and rename so a crash never leaves a half-written slot.
func (p *FilePersister) Save(items []Item) error {
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("serializing gallery: %w", err)
	}

	if dir := filepath.Dir(p.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating gallery directory: %w", err)
		}
	}

	tmp := p.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing gallery file: %w", err)
	}
	if err := os.Rename(tmp, p.Path); err != nil {
		return fmt.Errorf("replacing gallery file: %w", err)
	}
	return nil
}
