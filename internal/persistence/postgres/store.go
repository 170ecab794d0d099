// Package postgres persists sample and preset records to a shared Postgres
// database via github.com/jackc/pgx/v5 (registered as a database/sql
// driver through pgx/v5/stdlib), for a beamline control deployment backed
// by a database shared across processes — same table shape as
// internal/persistence/sqlite, grounded on the teacher's postgres store
// reusing its sqlite sibling's schema.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"hklgeo/pkg/domain"
)

// Open connects to dsn and ensures both record tables exist.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = "postgres://localhost/hklgeo?sslmode=disable"
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS samples (
		name TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("postgres: create samples table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS presets (
		name TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("postgres: create presets table: %w", err)
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
		return fmt.Errorf("postgres: marshal sample %s: %w", record.Name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO samples(name, payload) VALUES($1, $2) ON CONFLICT(name) DO UPDATE SET payload=EXCLUDED.payload`,
		record.Name, payload)
	if err != nil {
		return fmt.Errorf("postgres: upsert sample %s: %w", record.Name, err)
	}
	return nil
}

// Load decodes the named sample's stored JSON payload.
func (s *SampleStore) Load(ctx context.Context, name string) (domain.SampleRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM samples WHERE name = $1`, name)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return domain.SampleRecord{}, domain.NewError(domain.BadInput, name, "sample not found")
		}
		return domain.SampleRecord{}, fmt.Errorf("postgres: load sample %s: %w", name, err)
	}
	var record domain.SampleRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return domain.SampleRecord{}, fmt.Errorf("postgres: decode sample %s: %w", name, err)
	}
	return record, nil
}

// List returns every stored sample's name, sorted.
func (s *SampleStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM samples`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list samples: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("postgres: scan sample name: %w", err)
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, rows.Err()
}

// Delete removes the named sample; deleting an absent sample is not an
// error.
func (s *SampleStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM samples WHERE name = $1`, name); err != nil {
		return fmt.Errorf("postgres: delete sample %s: %w", name, err)
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
		return fmt.Errorf("postgres: marshal preset %s: %w", preset.Name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO presets(name, payload) VALUES($1, $2) ON CONFLICT(name) DO UPDATE SET payload=EXCLUDED.payload`,
		preset.Name, payload)
	if err != nil {
		return fmt.Errorf("postgres: upsert preset %s: %w", preset.Name, err)
	}
	return nil
}

// Load decodes the named preset's stored JSON payload.
func (s *PresetStore) Load(ctx context.Context, name string) (domain.GeometryPreset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM presets WHERE name = $1`, name)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return domain.GeometryPreset{}, domain.NewError(domain.BadInput, name, "preset not found")
		}
		return domain.GeometryPreset{}, fmt.Errorf("postgres: load preset %s: %w", name, err)
	}
	var preset domain.GeometryPreset
	if err := json.Unmarshal(payload, &preset); err != nil {
		return domain.GeometryPreset{}, fmt.Errorf("postgres: decode preset %s: %w", name, err)
	}
	return preset, nil
}

// List returns every stored preset's name, sorted.
func (s *PresetStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM presets`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list presets: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("postgres: scan preset name: %w", err)
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, rows.Err()
}

// Delete removes the named preset; deleting an absent preset is not an
// error.
func (s *PresetStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = $1`, name); err != nil {
		return fmt.Errorf("postgres: delete preset %s: %w", name, err)
	}
	return nil
}

var (
	_ domain.SampleStore = (*SampleStore)(nil)
	_ domain.PresetStore = (*PresetStore)(nil)
)
