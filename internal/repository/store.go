package repository

import (
	"context"
	"errors"

	"notesync-server/internal/domain"
)

var (
	// ErrNotFound is returned when a note, user or sync profile row does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrStaleRevision is returned by AdvanceRevision when the stored
	// ledger value no longer matches the expected one.
	ErrStaleRevision = errors.New("stale sync revision")
)

// NoteFilter narrows ListNotes. Since filters on last_sync_rev > *Since;
// PublicOnly restricts to notes readable by non-owners.
type NoteFilter struct {
	PublicOnly bool
	Since      *int64
}

// Tx is the per-transaction view of the store. All mutations of a sync
// batch go through one Tx and commit or roll back together.
type Tx interface {
	GetOrCreateNote(ctx context.Context, owner, guid string) (note *domain.Note, created bool, err error)
	SaveNote(ctx context.Context, note *domain.Note) error
	DeleteNote(ctx context.Context, owner, guid string) error
	GetRevision(ctx context.Context, owner string) (int64, error)
	// AdvanceRevision is a compare-and-set: it fails with ErrStaleRevision
	// unless the stored value still equals from.
	AdvanceRevision(ctx context.Context, owner string, from, to int64) error
}

// Store is the transactional entity store holding notes and the per-user
// revision ledger.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
	GetNote(ctx context.Context, owner, guid string) (*domain.Note, error)
	ListNotes(ctx context.Context, owner string, filter NoteFilter) ([]*domain.Note, error)
	GetRevision(ctx context.Context, owner string) (int64, error)
	CreateProfile(ctx context.Context, owner string) error
}
