// Package sqlite provides a SQLite implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"matrixview/internal/domain"
	"matrixview/internal/storage"

	_ "modernc.org/sqlite"
)

// Store is a SQLite implementation of storage.Store.
type Store struct {
	db *sql.DB
}

// NewMemoryStore creates an in-memory SQLite store.
func NewMemoryStore() (*Store, error) {
	return newStore(":memory:")
}

// NewFileStore creates a file-based SQLite store.
func NewFileStore(path string) (*Store, error) {
	return newStore(path)
}

func newStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Profile methods

func (s *Store) SaveProfile(ctx context.Context, profile *storage.Profile) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (name, gpio_pin, led_count, led_freq_hz, dma_channel,
			invert, brightness, width_count, height_count, topology, color_order,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			gpio_pin = excluded.gpio_pin,
			led_count = excluded.led_count,
			led_freq_hz = excluded.led_freq_hz,
			dma_channel = excluded.dma_channel,
			invert = excluded.invert,
			brightness = excluded.brightness,
			width_count = excluded.width_count,
			height_count = excluded.height_count,
			topology = excluded.topology,
			color_order = excluded.color_order,
			updated_at = excluded.updated_at
	`, profile.Name, profile.Spec.GPIOPin, profile.Spec.LEDCount, profile.Spec.LEDFreqHz,
		profile.Spec.DMAChannel, profile.Spec.Invert, profile.Spec.Brightness,
		profile.Spec.WidthCount, profile.Spec.HeightCount, profile.Spec.Topology.String(),
		profile.Spec.ColorOrder, profile.CreatedAt, now)
	return err
}

func (s *Store) GetProfile(ctx context.Context, name string) (*storage.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, gpio_pin, led_count, led_freq_hz, dma_channel, invert,
			brightness, width_count, height_count, topology, color_order,
			created_at, updated_at
		FROM profiles WHERE name = ?
	`, name)

	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "profile", ID: name}
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]*storage.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, gpio_pin, led_count, led_freq_hz, dma_channel, invert,
			brightness, width_count, height_count, topology, color_order,
			created_at, updated_at
		FROM profiles ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*storage.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (s *Store) DeleteProfile(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE name = ?", name)
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*storage.Profile, error) {
	var profile storage.Profile
	var topology string
	err := row.Scan(&profile.Name, &profile.Spec.GPIOPin, &profile.Spec.LEDCount,
		&profile.Spec.LEDFreqHz, &profile.Spec.DMAChannel, &profile.Spec.Invert,
		&profile.Spec.Brightness, &profile.Spec.WidthCount, &profile.Spec.HeightCount,
		&topology, &profile.Spec.ColorOrder, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, err
	}

	profile.Spec.Topology, err = domain.ParseTopology(topology)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Config methods

func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", storage.ErrNotFound{Resource: "config", ID: key}
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO config (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`, key, value)
	return err
}

func (s *Store) DeleteConfig(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM config WHERE key = ?", key)
	return err
}
