// Package store defines the persistence contracts of the recognition
// service: user accounts and per-owner recognition summaries. Summaries are
// stored whole as JSON payloads - they are ephemeral computation results the
// service merely keeps the latest copy of, one per owner.
package store

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// RECORDS
// =============================================================================

// User is a registered account. The password hash is bcrypt.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// SummaryRecord is one owner's stored recognition summary.
type SummaryRecord struct {
	OwnerID   string
	Payload   []byte // recognition.Summary as JSON
	CreatedAt time.Time
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrDuplicateEmail is returned when a signup reuses an existing email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// =============================================================================
// INTERFACES
// =============================================================================

type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// SummaryStore keeps at most one summary per owner. SaveSummary has
// replace-on-write semantics: any existing record for the owner is removed
// before the new one is inserted.
type SummaryStore interface {
	SaveSummary(ctx context.Context, ownerID string, payload []byte) error
	// GetSummary returns (nil, nil) when the owner has no stored summary.
	GetSummary(ctx context.Context, ownerID string) (*SummaryRecord, error)
	// DeleteSummary is a no-op when nothing is stored.
	DeleteSummary(ctx context.Context, ownerID string) error
	// ListOwners returns every owner with a stored summary, for the
	// scheduled refresher.
	ListOwners(ctx context.Context) ([]string, error)
}

// Store is the full persistence surface the API layer depends on.
type Store interface {
	UserStore
	SummaryStore
}
