package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notesync-server/internal/domain"
	"notesync-server/internal/event"
	"notesync-server/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SyncService applies batches of client note changes against the owner's
// revision ledger. It holds no state between calls; every batch reads
// fresh from the store and commits as one transaction.
type SyncService struct {
	store   repository.Store
	cache   *redis.Client
	events  *event.Publisher
	loc     *time.Location
	baseURL string
	log     *zap.SugaredLogger

	now func() time.Time
}

func NewSyncService(store repository.Store, cache *redis.Client, events *event.Publisher,
	loc *time.Location, baseURL string, log *zap.SugaredLogger) *SyncService {
	return &SyncService{
		store:   store,
		cache:   cache,
		events:  events,
		loc:     loc,
		baseURL: baseURL,
		log:     log,
		now:     time.Now,
	}
}

// ApplyBatch validates the claimed revision against the owner's ledger,
// applies every change record, stamps touched notes with the new revision
// and advances the ledger, all in one transaction. On success it returns
// the new revision plus summaries of the owner's notes; on any failure
// nothing is applied.
func (s *SyncService) ApplyBatch(ctx context.Context, caller, owner string, req *domain.SyncUpdateRequest) (*domain.SyncUpdateResponse, error) {
	if caller != owner {
		return nil, ErrForbidden
	}

	var newRev int64
	err := s.store.RunInTx(ctx, func(tx repository.Tx) error {
		current, err := tx.GetRevision(ctx, owner)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		newRev = current + 1
		if req.LatestSyncRevision != nil && *req.LatestSyncRevision != newRev {
			return ErrRevisionConflict
		}

		for i := range req.NoteChanges {
			if err := s.applyChange(ctx, tx, owner, newRev, &req.NoteChanges[i]); err != nil {
				return err
			}
		}

		if err := tx.AdvanceRevision(ctx, owner, current, newRev); err != nil {
			if errors.Is(err, repository.ErrStaleRevision) {
				return ErrRevisionConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateMeta(ctx, owner)
	s.publishCompleted(ctx, owner, newRev, len(req.NoteChanges))

	notes, err := s.store.ListNotes(ctx, owner, repository.NoteFilter{})
	if err != nil {
		return nil, fmt.Errorf("batch committed at revision %d but listing failed: %w", newRev, err)
	}
	summaries := make([]domain.NoteSummary, 0, len(notes))
	for _, n := range notes {
		summaries = append(summaries, n.Summary(s.baseURL))
	}

	return &domain.SyncUpdateResponse{
		LatestSyncRevision: newRev,
		Notes:              summaries,
	}, nil
}

func (s *SyncService) applyChange(ctx context.Context, tx repository.Tx, owner string, rev int64, c *domain.ChangeRecord) error {
	if c.GUID == "" {
		return fmt.Errorf("%w: missing guid", ErrMalformedRecord)
	}

	note, _, err := tx.GetOrCreateNote(ctx, owner, c.GUID)
	if err != nil {
		return err
	}

	if c.Command == domain.CommandDelete {
		return tx.DeleteNote(ctx, owner, c.GUID)
	}

	if c.Title != nil {
		note.Title = *c.Title
	}
	if c.NoteContent != nil {
		note.Content = cleanContent(*c.NoteContent)
	}
	if c.NoteContentVersion != nil {
		note.ContentVersion = *c.NoteContentVersion
	}
	if c.LastChangeDate != nil {
		t, err := cleanDate(*c.LastChangeDate, s.loc)
		if err != nil {
			return err
		}
		note.UserModified = t
	}
	if c.LastMetadataChangeDate != nil {
		t, err := cleanDate(*c.LastMetadataChangeDate, s.loc)
		if err != nil {
			return err
		}
		note.Modified = t
	} else {
		note.Modified = s.now().In(s.loc)
	}
	if c.CreateDate != nil {
		t, err := cleanDate(*c.CreateDate, s.loc)
		if err != nil {
			return err
		}
		note.Created = t
	}
	if c.OpenOnStartup != nil {
		note.OpenOnStartup = parseStartupFlag(*c.OpenOnStartup)
	}

	note.LastSyncRev = rev

	return tx.SaveNote(ctx, note)
}

func (s *SyncService) invalidateMeta(ctx context.Context, owner string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, metaKey(owner)).Err(); err != nil {
		s.log.Warnw("failed to invalidate user meta cache", "owner", owner, "error", err)
	}
}

func (s *SyncService) publishCompleted(ctx context.Context, owner string, rev int64, changes int) {
	if s.events == nil {
		return
	}
	err := s.events.SyncCompleted(ctx, event.SyncCompleted{
		User:               owner,
		LatestSyncRevision: rev,
		ChangeCount:        changes,
	})
	if err != nil {
		s.log.Warnw("failed to publish sync event", "owner", owner, "revision", rev, "error", err)
	}
}
