// Package storage provides persistence for display settings: named
// matrix spec profiles and a small configuration key-value table.
package storage

import (
	"context"
	"time"

	"matrixview/internal/domain"
)

// Store is the interface for persistent settings storage.
type Store interface {
	// Profile management
	SaveProfile(ctx context.Context, profile *Profile) error
	GetProfile(ctx context.Context, name string) (*Profile, error)
	ListProfiles(ctx context.Context) ([]*Profile, error)
	DeleteProfile(ctx context.Context, name string) error

	// Configuration
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
	DeleteConfig(ctx context.Context, key string) error

	// Lifecycle
	Close() error
}

// ConfigKeyLastBackend remembers the backend kind of the last session.
const ConfigKeyLastBackend = "last_backend"

// Profile is a named, stored matrix spec.
type Profile struct {
	Name      string
	Spec      domain.MatrixSpec
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile creates a profile record.
func NewProfile(name string, spec domain.MatrixSpec) *Profile {
	now := time.Now()
	return &Profile{
		Name:      name,
		Spec:      spec,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ErrNotFound is returned when a record is not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	_, ok := err.(ErrNotFound)
	return ok
}
