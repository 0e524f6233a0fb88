package service

import (
	"context"
	"errors"

	"notesync-server/internal/domain"
	"notesync-server/internal/repository"
)

// NoteService is the read side: it produces the note list a requester is
// authorized to see, and single notes subject to the same visibility rule.
type NoteService struct {
	store   repository.Store
	baseURL string
}

func NewNoteService(store repository.Store, baseURL string) *NoteService {
	return &NoteService{store: store, baseURL: baseURL}
}

// List returns the owner's notes visible to requester together with the
// owner's current sync revision. Non-owners see public notes only. A
// non-nil since restricts to notes touched after that revision.
func (s *NoteService) List(ctx context.Context, requester, owner string, since *int64) ([]*domain.Note, int64, error) {
	rev, err := s.store.GetRevision(ctx, owner)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	filter := repository.NoteFilter{Since: since}
	if requester != owner {
		filter.PublicOnly = true
	}

	notes, err := s.store.ListNotes(ctx, owner, filter)
	if err != nil {
		return nil, 0, err
	}
	return notes, rev, nil
}

// Get returns a single note. Private notes are visible to their owner only.
func (s *NoteService) Get(ctx context.Context, requester, owner, guid string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, owner, guid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if requester != owner && note.Permissions != domain.PermissionPublic {
		return nil, ErrForbidden
	}
	return note, nil
}

// Describe renders notes in the requested shape.
func (s *NoteService) Describe(notes []*domain.Note, includeNotes bool) any {
	if includeNotes {
		details := make([]domain.NoteDetail, 0, len(notes))
		for _, n := range notes {
			details = append(details, n.Detail())
		}
		return details
	}
	summaries := make([]domain.NoteSummary, 0, len(notes))
	for _, n := range notes {
		summaries = append(summaries, n.Summary(s.baseURL))
	}
	return summaries
}
