package gallery

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const createGalleryTable = `
CREATE TABLE IF NOT EXISTS booth_gallery (
	id         TEXT PRIMARY KEY,
	image_url  TEXT NOT NULL,
	caption    TEXT NOT NULL,
	era_id     TEXT NOT NULL,
	created_ms BIGINT NOT NULL
)`

// PostgresPersister stores the collection in PostgreSQL. Like the file slot it
// is overwritten wholesale on every mutation, so the database always mirrors
// the last committed in-memory state.
type PostgresPersister struct {
	db *sql.DB
}

// NewPostgresPersister connects to PostgreSQL and ensures the gallery table
// exists.
func NewPostgresPersister(databaseURL string) (*PostgresPersister, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening PostgreSQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}
	if _, err := db.Exec(createGalleryTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating gallery table: %w", err)
	}
	return &PostgresPersister{db: db}, nil
}

// Load reads the collection newest first.
func (p *PostgresPersister) Load() ([]Item, error) {
	rows, err := p.db.Query(
		`SELECT id, image_url, caption, era_id, created_ms
		 FROM booth_gallery ORDER BY created_ms DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("loading gallery rows: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.ImageURL, &item.Caption, &item.EraID, &item.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning gallery row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading gallery rows: %w", err)
	}
	return items, nil
}

// Save replaces the stored collection inside a single transaction.
func (p *PostgresPersister) Save(items []Item) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("starting gallery transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM booth_gallery`); err != nil {
		return fmt.Errorf("clearing gallery table: %w", err)
	}
	for _, item := range items {
		if _, err := tx.Exec(
			`INSERT INTO booth_gallery (id, image_url, caption, era_id, created_ms)
			 VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.ImageURL, item.Caption, item.EraID, item.Timestamp,
		); err != nil {
			return fmt.Errorf("inserting gallery item %s: %w", item.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing gallery transaction: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (p *PostgresPersister) Close() error {
	return p.db.Close()
}
