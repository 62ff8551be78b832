// Package savestore keeps birch state strings in a SQLite database.
package savestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store implements birch.SaveStore on SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies the migrations.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and shared.
	db.SetMaxOpenConns(1)

	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		p := path.Join("migrations", entry.Name())
		migration, err := fs.ReadFile(migrations, p)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to read migration %s: %w", p, err)
		}
		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %s: %w", p, err)
		}
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores data in slot, replacing what was there.
func (s *Store) Put(ctx context.Context, slot, data string) error {
	q := `
	INSERT OR REPLACE INTO saves (slot, data, updated_at)
	VALUES (?, ?, ?);
	`
	if _, err := s.db.ExecContext(ctx, q, slot, data, s.now().Unix()); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

// Get returns the data of slot. A missing slot yields an error wrapping
// fs.ErrNotExist.
func (s *Store) Get(ctx context.Context, slot string) (string, error) {
	q := `
	SELECT data FROM saves WHERE slot = ?;
	`
	var data string
	if err := s.db.QueryRowContext(ctx, q, slot).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("slot %s: %w", slot, fs.ErrNotExist)
		}
		return "", fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return data, nil
}

// Slot describes a stored save.
type Slot struct {
	Name      string
	UpdatedAt time.Time
}

// Slots lists the stored slots, most recently updated first.
func (s *Store) Slots(ctx context.Context) ([]Slot, error) {
	q := `
	SELECT slot, updated_at FROM saves ORDER BY updated_at DESC, slot;
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()
	var out []Slot
	for rows.Next() {
		var (
			name string
			ts   int64
		)
		if err := rows.Scan(&name, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		out = append(out, Slot{Name: name, UpdatedAt: time.Unix(ts, 0)})
	}
	return out, rows.Err()
}

// Delete removes slot. Deleting a missing slot is not an error.
func (s *Store) Delete(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?;`, slot); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", slot, err)
	}
	return nil
}
