// Package profile persists the three profile strings used by the energy
// estimate in a local SQLite database.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meltforce/fitcart/internal/nutrition"

	_ "modernc.org/sqlite"
)

// Setting keys, shared with the mobile app's local storage.
const (
	KeyHeightCM = "fitcart_height_cm"
	KeyWeightKG = "fitcart_weight_kg"
	KeyGender   = "fitcart_gender"
)

// Store is a small key-value table in dir/profile.db.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the profile database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating profile dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "profile.db"))
	if err != nil {
		return nil, fmt.Errorf("opening profile db: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating settings table: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns a stored value, or "" when the key is unset.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return v, nil
}

// Set stores a value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// Load reads the stored profile. Unset fields are empty; gender defaults to male.
func (s *Store) Load(ctx context.Context) (nutrition.Profile, error) {
	var p nutrition.Profile
	var err error
	if p.HeightCM, err = s.Get(ctx, KeyHeightCM); err != nil {
		return p, err
	}
	if p.WeightKG, err = s.Get(ctx, KeyWeightKG); err != nil {
		return p, err
	}
	g, err := s.Get(ctx, KeyGender)
	if err != nil {
		return p, err
	}
	p.Gender = nutrition.ParseGender(g)
	return p, nil
}

// Save writes all three profile fields in one transaction.
func (s *Store) Save(ctx context.Context, p nutrition.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning profile save: %w", err)
	}
	defer tx.Rollback()

	values := map[string]string{
		KeyHeightCM: p.HeightCM,
		KeyWeightKG: p.WeightKG,
		KeyGender:   string(nutrition.ParseGender(string(p.Gender))),
	}
	for k, v := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
			k, v,
		); err != nil {
			return fmt.Errorf("writing setting %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing profile save: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
