package domain

import (
	"fmt"
	"time"
)

type Permission int

const (
	PermissionPrivate Permission = 0
	PermissionPublic  Permission = 1
)

// CommandDelete is the only recognized change-record command.
const CommandDelete = "delete"

// Note is the server-side authoritative copy of a client note, keyed by
// (Owner, GUID). LastSyncRev records the sync revision of the batch that
// last touched it and is always <= the owner's latest_sync_rev.
type Note struct {
	Owner          string     `json:"owner"`
	GUID           string     `json:"guid"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	ContentVersion string     `json:"content_version"`
	Created        time.Time  `json:"created"`
	UserModified   time.Time  `json:"user_modified"`
	Modified       time.Time  `json:"modified"`
	OpenOnStartup  bool       `json:"open_on_startup"`
	Permissions    Permission `json:"permissions"`
	LastSyncRev    int64      `json:"last_sync_rev"`
	Tags           []string   `json:"tags"`
}

// ChangeRecord is one entry of a batch update. Absent fields are nil and
// leave the stored note untouched, so omission, null and empty string stay
// distinguishable on the wire.
type ChangeRecord struct {
	GUID                   string  `json:"guid" validate:"required"`
	Command                string  `json:"command,omitempty"`
	Title                  *string `json:"title,omitempty"`
	NoteContent            *string `json:"note-content,omitempty"`
	NoteContentVersion     *string `json:"note-content-version,omitempty"`
	LastChangeDate         *string `json:"last-change-date,omitempty"`
	LastMetadataChangeDate *string `json:"last-metadata-change-date,omitempty"`
	CreateDate             *string `json:"create-date,omitempty"`
	OpenOnStartup          *string `json:"open-on-startup,omitempty"`
}

// SyncUpdateRequest is the batch-update wire shape. A nil
// LatestSyncRevision defaults to the owner's current revision + 1, which
// always passes the gate; clients that want conflict detection must send
// their last-known revision + 1 explicitly.
type SyncUpdateRequest struct {
	LatestSyncRevision *int64         `json:"latest-sync-revision,omitempty"`
	NoteChanges        []ChangeRecord `json:"note-changes" validate:"dive"`
}

type SyncUpdateResponse struct {
	LatestSyncRevision int64         `json:"latest-sync-revision"`
	Notes              []NoteSummary `json:"notes"`
}

type NoteListResponse struct {
	LatestSyncRevision int64 `json:"latest-sync-revision"`
	Notes              any   `json:"notes"`
}

type NoteRef struct {
	APIRef string `json:"api-ref"`
	Href   string `json:"href"`
}

// NoteDetail is the full read shape, timestamps serialized in the server's
// configured zone.
type NoteDetail struct {
	GUID                   string   `json:"guid"`
	Title                  string   `json:"title"`
	NoteContent            string   `json:"note-content"`
	NoteContentVersion     string   `json:"note-content-version"`
	LastChangeDate         string   `json:"last-change-date"`
	LastMetadataChangeDate string   `json:"last-metadata-change-date"`
	CreateDate             string   `json:"create-date"`
	OpenOnStartup          bool     `json:"open-on-startup"`
	LastSyncRevision       int64    `json:"last-sync-revision"`
	Tags                   []string `json:"tags"`
}

// NoteSummary is the compact read shape: guid, title and a reference
// descriptor pointing at the API and web locations of the note.
type NoteSummary struct {
	GUID  string  `json:"guid"`
	Ref   NoteRef `json:"ref"`
	Title string  `json:"title"`
}

func (n *Note) Detail() NoteDetail {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteDetail{
		GUID:                   n.GUID,
		Title:                  n.Title,
		NoteContent:            n.Content,
		NoteContentVersion:     n.ContentVersion,
		LastChangeDate:         n.UserModified.Format(time.RFC3339),
		LastMetadataChangeDate: n.Modified.Format(time.RFC3339),
		CreateDate:             n.Created.Format(time.RFC3339),
		OpenOnStartup:          n.OpenOnStartup,
		LastSyncRevision:       n.LastSyncRev,
		Tags:                   tags,
	}
}

func (n *Note) Summary(baseURL string) NoteSummary {
	return NoteSummary{
		GUID: n.GUID,
		Ref: NoteRef{
			APIRef: fmt.Sprintf("%s/api/1.0/%s/notes/%s", baseURL, n.Owner, n.GUID),
			Href:   fmt.Sprintf("%s/%s/notes/%s", baseURL, n.Owner, n.GUID),
		},
		Title: n.Title,
	}
}
