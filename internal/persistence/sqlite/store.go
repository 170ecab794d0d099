// Package sqlite persists sample and preset records to a SQLite database via
// modernc.org/sqlite, a pure-Go driver requiring no cgo — grounded on the
// teacher's sqlite store, which keeps one JSON-blob-per-row table and
// upserts on every write rather than diffing columns.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"hklgeo/pkg/domain"
)

// Open opens (creating if absent) a SQLite database at path and ensures both
// record tables exist.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = "hklgeo.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS samples (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("sqlite: create samples table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS presets (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("sqlite: create presets table: %w", err)
	}
	return db, nil
}

// SampleStore implements domain.SampleStore over a samples table.
type SampleStore struct {
	db *sql.DB
}

// NewSampleStore wraps db (as returned by Open) as a SampleStore.
func NewSampleStore(db *sql.DB) *SampleStore { return &SampleStore{db: db} }

// Save upserts record's JSON encoding keyed by its name.
func (s *SampleStore) Save(ctx context.Context, record domain.SampleRecord) error {
	if record.Name == "" {
		return domain.NewError(domain.BadInput, "", "sample record must have a name")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("sqlite: marshal sample %s: %w", record.Name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO samples(name, payload) VALUES(?, ?) ON CONFLICT(name) DO UPDATE SET payload=excluded.payload`,
		record.Name, string(payload))
	if err != nil {
		return fmt.Errorf("sqlite: upsert sample %s: %w", record.Name, err)
	}
	return nil
}

// Load decodes the named sample's stored JSON payload.
func (s *SampleStore) Load(ctx context.Context, name string) (domain.SampleRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM samples WHERE name = ?`, name)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return domain.SampleRecord{}, domain.NewError(domain.BadInput, name, "sample not found")
		}
		return domain.SampleRecord{}, fmt.Errorf("sqlite: load sample %s: %w", name, err)
	}
	var record domain.SampleRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return domain.SampleRecord{}, fmt.Errorf("sqlite: decode sample %s: %w", name, err)
	}
	return record, nil
}

// List returns every stored sample's name, sorted.
func (s *SampleStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM samples`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list samples: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scan sample name: %w", err)
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, rows.Err()
}

// Delete removes the named sample; deleting an absent sample is not an
// error.
func (s *SampleStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM samples WHERE name = ?`, name); err != nil {
		return fmt.Errorf("sqlite: delete sample %s: %w", name, err)
	}
	return nil
}

// PresetStore implements domain.PresetStore over a presets table.
type PresetStore struct {
	db *sql.DB
}

// NewPresetStore wraps db (as returned by Open) as a PresetStore.
func NewPresetStore(db *sql.DB) *PresetStore { return &PresetStore{db: db} }

// Save upserts preset's JSON encoding keyed by its name.
func (s *PresetStore) Save(ctx context.Context, preset domain.GeometryPreset) error {
	if preset.Name == "" {
		return domain.NewError(domain.BadInput, "", "preset must have a name")
	}
	payload, err := json.Marshal(preset)
	if err != nil {
		return fmt.Errorf("sqlite: marshal preset %s: %w", preset.Name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO presets(name, payload) VALUES(?, ?) ON CONFLICT(name) DO UPDATE SET payload=excluded.payload`,
		preset.Name, string(payload))
	if err != nil {
		return fmt.Errorf("sqlite: upsert preset %s: %w", preset.Name, err)
	}
	return nil
}

// Load decodes the named preset's stored JSON payload.
func (s *PresetStore) Load(ctx context.Context, name string) (domain.GeometryPreset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM presets WHERE name = ?`, name)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return domain.GeometryPreset{}, domain.NewError(domain.BadInput, name, "preset not found")
		}
		return domain.GeometryPreset{}, fmt.Errorf("sqlite: load preset %s: %w", name, err)
	}
	var preset domain.GeometryPreset
	if err := json.Unmarshal([]byte(payload), &preset); err != nil {
		return domain.GeometryPreset{}, fmt.Errorf("sqlite: decode preset %s: %w", name, err)
	}
	return preset, nil
}

// List returns every stored preset's name, sorted.
func (s *PresetStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM presets`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list presets: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scan preset name: %w", err)
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, rows.Err()
}

// Delete removes the named preset; deleting an absent preset is not an
// error.
func (s *PresetStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("sqlite: delete preset %s: %w", name, err)
	}
	return nil
}

var (
	_ domain.SampleStore = (*SampleStore)(nil)
	_ domain.PresetStore = (*PresetStore)(nil)
)
