package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"notesync-server/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(36) PRIMARY KEY,
	username VARCHAR(30) UNIQUE NOT NULL,
	email VARCHAR(255) UNIQUE NOT NULL,
	password VARCHAR(255) NOT NULL,
	first_name VARCHAR(255) NOT NULL,
	last_name VARCHAR(255) NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS sync_profiles (
	owner VARCHAR(30) PRIMARY KEY,
	latest_sync_rev BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS notes (
	owner VARCHAR(30) NOT NULL,
	guid VARCHAR(64) NOT NULL,
	title TEXT NOT NULL,
	content MEDIUMTEXT NOT NULL,
	content_version VARCHAR(64) NOT NULL,
	created DATETIME NOT NULL,
	user_modified DATETIME NOT NULL,
	modified DATETIME NOT NULL,
	open_on_startup BOOLEAN NOT NULL,
	permissions TINYINT NOT NULL,
	last_sync_rev BIGINT NOT NULL,
	PRIMARY KEY (owner, guid)
);
CREATE TABLE IF NOT EXISTS note_tags (
	owner VARCHAR(30) NOT NULL,
	guid VARCHAR(64) NOT NULL,
	name VARCHAR(255) NOT NULL,
	PRIMARY KEY (owner, guid, name)
);`

const noteColumns = "owner, guid, title, content, content_version, created, user_modified, modified, open_on_startup, permissions, last_sync_rev"

// SQLStore implements Store on database/sql. Batch atomicity comes from
// the driver's transactions; the ledger advance is a conditional UPDATE so
// concurrent batches for the same owner serialize on the profile row.
type SQLStore struct {
	db        *sql.DB
	opTimeout time.Duration
}

func NewSQLStore(db *sql.DB, opTimeout time.Duration) *SQLStore {
	return &SQLStore{db: db, opTimeout: opTimeout}
}

// InitSchema creates the tables when missing.
func (s *SQLStore) InitSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&sqlTx{tx: dbTx}); err != nil {
		_ = dbTx.Rollback()
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) GetNote(ctx context.Context, owner, guid string) (*domain.Note, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	row := s.db.QueryRowContext(dbCtx,
		"SELECT "+noteColumns+" FROM notes WHERE owner = ? AND guid = ?", owner, guid)

	note, err := scanNote(row)
	if err != nil {
		return nil, err
	}

	tags, err := s.loadTags(dbCtx, owner, guid)
	if err != nil {
		return nil, err
	}
	note.Tags = tags
	return note, nil
}

func (s *SQLStore) ListNotes(ctx context.Context, owner string, filter NoteFilter) ([]*domain.Note, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	query := "SELECT " + noteColumns + " FROM notes WHERE owner = ?"
	args := []any{owner}
	if filter.PublicOnly {
		query += " AND permissions = ?"
		args = append(args, int(domain.PermissionPublic))
	}
	if filter.Since != nil {
		query += " AND last_sync_rev > ?"
		args = append(args, *filter.Since)
	}
	query += " ORDER BY guid"

	rows, err := s.db.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	tagsByGUID, err := s.loadAllTags(dbCtx, owner)
	if err != nil {
		return nil, err
	}
	for _, note := range notes {
		note.Tags = tagsByGUID[note.GUID]
	}
	return notes, nil
}

func (s *SQLStore) GetRevision(ctx context.Context, owner string) (int64, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	var rev int64
	err := s.db.QueryRowContext(dbCtx,
		"SELECT latest_sync_rev FROM sync_profiles WHERE owner = ?", owner).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read sync profile: %w", err)
	}
	return rev, nil
}

func (s *SQLStore) CreateProfile(ctx context.Context, owner string) error {
	dbCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(dbCtx,
		"INSERT INTO sync_profiles (owner, latest_sync_rev) VALUES (?, 0)", owner); err != nil {
		return fmt.Errorf("failed to create sync profile: %w", err)
	}
	return nil
}

func (s *SQLStore) loadTags(ctx context.Context, owner, guid string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM note_tags WHERE owner = ? AND guid = ? ORDER BY name", owner, guid)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func (s *SQLStore) loadAllTags(ctx context.Context, owner string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT guid, name FROM note_tags WHERE owner = ? ORDER BY name", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	byGUID := make(map[string][]string)
	for rows.Next() {
		var guid, name string
		if err := rows.Scan(&guid, &name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		byGUID[guid] = append(byGUID[guid], name)
	}
	return byGUID, rows.Err()
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) GetOrCreateNote(ctx context.Context, owner, guid string) (*domain.Note, bool, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE owner = ? AND guid = ? FOR UPDATE", owner, guid)

	note, err := scanNote(row)
	if err == nil {
		return note, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()
	note = &domain.Note{
		Owner:        owner,
		GUID:         guid,
		Created:      now,
		UserModified: now,
		Modified:     now,
	}
	if _, err := t.tx.ExecContext(ctx,
		"INSERT INTO notes ("+noteColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		note.Owner, note.GUID, note.Title, note.Content, note.ContentVersion,
		note.Created, note.UserModified, note.Modified,
		note.OpenOnStartup, int(note.Permissions), note.LastSyncRev); err != nil {
		return nil, false, fmt.Errorf("failed to create note: %w", err)
	}
	return note, true, nil
}

func (t *sqlTx) SaveNote(ctx context.Context, note *domain.Note) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, content_version = ?, created = ?,
			user_modified = ?, modified = ?, open_on_startup = ?, permissions = ?, last_sync_rev = ?
		 WHERE owner = ? AND guid = ?`,
		note.Title, note.Content, note.ContentVersion, note.Created,
		note.UserModified, note.Modified, note.OpenOnStartup, int(note.Permissions), note.LastSyncRev,
		note.Owner, note.GUID)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

func (t *sqlTx) DeleteNote(ctx context.Context, owner, guid string) error {
	if _, err := t.tx.ExecContext(ctx,
		"DELETE FROM note_tags WHERE owner = ? AND guid = ?", owner, guid); err != nil {
		return fmt.Errorf("failed to delete note tags: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx,
		"DELETE FROM notes WHERE owner = ? AND guid = ?", owner, guid); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (t *sqlTx) GetRevision(ctx context.Context, owner string) (int64, error) {
	var rev int64
	err := t.tx.QueryRowContext(ctx,
		"SELECT latest_sync_rev FROM sync_profiles WHERE owner = ? FOR UPDATE", owner).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read sync profile: %w", err)
	}
	return rev, nil
}

func (t *sqlTx) AdvanceRevision(ctx context.Context, owner string, from, to int64) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE sync_profiles SET latest_sync_rev = ? WHERE owner = ? AND latest_sync_rev = ?",
		to, owner, from)
	if err != nil {
		return fmt.Errorf("failed to advance sync revision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to advance sync revision: %w", err)
	}
	if affected != 1 {
		return ErrStaleRevision
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var note domain.Note
	var permissions int
	err := row.Scan(&note.Owner, &note.GUID, &note.Title, &note.Content, &note.ContentVersion,
		&note.Created, &note.UserModified, &note.Modified,
		&note.OpenOnStartup, &permissions, &note.LastSyncRev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan note: %w", err)
	}
	note.Permissions = domain.Permission(permissions)
	return &note, nil
}
