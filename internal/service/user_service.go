package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"notesync-server/internal/domain"
	"notesync-server/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const userMetaKey = "usermeta.%s"

func metaKey(username string) string {
	return fmt.Sprintf(userMetaKey, username)
}

// UserService serves the user meta endpoint: profile names, the notes
// reference and the current sync revision. Reads go through a cache-aside
// redis layer invalidated on every successful sync batch; cache failures
// fall back to the store.
type UserService struct {
	users    repository.UserRepository
	store    repository.Store
	cache    *redis.Client
	cacheTTL time.Duration
	baseURL  string
	log      *zap.SugaredLogger
}

func NewUserService(users repository.UserRepository, store repository.Store,
	cache *redis.Client, cacheTTL time.Duration, baseURL string, log *zap.SugaredLogger) *UserService {
	return &UserService{
		users:    users,
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		baseURL:  baseURL,
		log:      log,
	}
}

func (s *UserService) Meta(ctx context.Context, username string) (*domain.UserMeta, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, metaKey(username)).Result()
		if err != nil && err != redis.Nil {
			s.log.Warnw("failed to read user meta cache", "username", username, "error", err)
		}
		if cached != "" {
			var meta domain.UserMeta
			if err := json.Unmarshal([]byte(cached), &meta); err != nil {
				s.log.Warnw("failed to decode cached user meta", "username", username, "error", err)
			} else {
				return &meta, nil
			}
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rev, err := s.store.GetRevision(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	meta := &domain.UserMeta{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		NotesRef: domain.NoteRef{
			APIRef: fmt.Sprintf("%s/api/1.0/%s/notes", s.baseURL, username),
			Href:   fmt.Sprintf("%s/%s/notes", s.baseURL, username),
		},
		LatestSyncRevision: rev,
	}

	if s.cache != nil {
		if data, err := json.Marshal(meta); err == nil {
			if err := s.cache.Set(ctx, metaKey(username), string(data), s.cacheTTL).Err(); err != nil {
				s.log.Warnw("failed to cache user meta", "username", username, "error", err)
			}
		}
	}

	return meta, nil
}
