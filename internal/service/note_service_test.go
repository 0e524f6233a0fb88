package service

import (
	"context"
	"errors"
	"testing"

	"notesync-server/internal/domain"
)

func TestNoteService_List_OwnerSeesEverything(t *testing.T) {
	store := newMockStore()
	store.CreateProfile(context.Background(), "sally")
	store.revisions["sally"] = 7
	store.seed(&domain.Note{Owner: "sally", GUID: "private", Permissions: domain.PermissionPrivate, LastSyncRev: 3})
	store.seed(&domain.Note{Owner: "sally", GUID: "public", Permissions: domain.PermissionPublic, LastSyncRev: 6})
	svc := NewNoteService(store, "http://sync.example.com")

	notes, rev, err := svc.List(context.Background(), "sally", "sally", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rev != 7 {
		t.Errorf("expected revision 7, got %d", rev)
	}
	if len(notes) != 2 {
		t.Errorf("expected 2 notes, got %d", len(notes))
	}
}

func TestNoteService_List_StrangerSeesPublicOnly(t *testing.T) {
	store := newMockStore()
	store.CreateProfile(context.Background(), "sally")
	store.seed(&domain.Note{Owner: "sally", GUID: "private", Permissions: domain.PermissionPrivate})
	store.seed(&domain.Note{Owner: "sally", GUID: "public", Permissions: domain.PermissionPublic})
	svc := NewNoteService(store, "http://sync.example.com")

	notes, _, err := svc.List(context.Background(), "bob", "sally", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].GUID != "public" {
		t.Errorf("expected the public note, got %s", notes[0].GUID)
	}
}

func TestNoteService_List_SinceFilter(t *testing.T) {
	store := newMockStore()
	store.CreateProfile(context.Background(), "sally")
	store.revisions["sally"] = 10
	store.seed(&domain.Note{Owner: "sally", GUID: "old", LastSyncRev: 4})
	store.seed(&domain.Note{Owner: "sally", GUID: "boundary", LastSyncRev: 5})
	store.seed(&domain.Note{Owner: "sally", GUID: "recent", LastSyncRev: 8})
	svc := NewNoteService(store, "http://sync.example.com")

	notes, _, err := svc.List(context.Background(), "sally", "sally", int64Ptr(5))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note newer than revision 5, got %d", len(notes))
	}
	if notes[0].GUID != "recent" {
		t.Errorf("expected the recent note, got %s", notes[0].GUID)
	}
}

func TestNoteService_List_UnknownOwner(t *testing.T) {
	store := newMockStore()
	svc := NewNoteService(store, "http://sync.example.com")

	_, _, err := svc.List(context.Background(), "bob", "ghost", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNoteService_Get(t *testing.T) {
	store := newMockStore()
	store.CreateProfile(context.Background(), "sally")
	store.seed(&domain.Note{Owner: "sally", GUID: "private", Permissions: domain.PermissionPrivate})
	store.seed(&domain.Note{Owner: "sally", GUID: "public", Permissions: domain.PermissionPublic})
	svc := NewNoteService(store, "http://sync.example.com")

	if _, err := svc.Get(context.Background(), "sally", "sally", "private"); err != nil {
		t.Errorf("expected owner to read private note, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "bob", "sally", "public"); err != nil {
		t.Errorf("expected stranger to read public note, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "bob", "sally", "private"); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for stranger on private note, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "sally", "sally", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNoteService_Describe(t *testing.T) {
	svc := NewNoteService(newMockStore(), "http://sync.example.com")
	notes := []*domain.Note{
		{Owner: "sally", GUID: "guid-1", Title: "One"},
	}

	summaries, ok := svc.Describe(notes, false).([]domain.NoteSummary)
	if !ok {
		t.Fatal("expected summaries without include_notes")
	}
	if summaries[0].Ref.Href != "http://sync.example.com/sally/notes/guid-1" {
		t.Errorf("unexpected href %q", summaries[0].Ref.Href)
	}

	details, ok := svc.Describe(notes, true).([]domain.NoteDetail)
	if !ok {
		t.Fatal("expected full notes with include_notes")
	}
	if details[0].GUID != "guid-1" {
		t.Errorf("unexpected guid %q", details[0].GUID)
	}
	if details[0].Tags == nil {
		t.Error("expected tags to serialize as an empty list, not null")
	}
}
