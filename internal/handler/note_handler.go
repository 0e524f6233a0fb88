package handler

import (
	"errors"
	"net/http"
	"strconv"

	"notesync-server/internal/domain"
	"notesync-server/internal/middleware"
	"notesync-server/internal/service"
	"notesync-server/pkg/response"

	"github.com/gorilla/mux"
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// List is GET /api/1.0/{username}/notes. Optional query parameters:
// since=N restricts to notes touched after revision N, include_notes
// switches from summaries to full notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["username"]
	requester := middleware.GetUsername(r)
	if requester == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var since *int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "invalid since parameter")
			return
		}
		since = &parsed
	}

	notes, rev, err := h.noteService.List(r.Context(), requester, owner, since)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w, "failed to list notes")
		return
	}

	includeNotes := r.URL.Query().Has("include_notes")
	response.JSON(w, http.StatusOK, domain.NoteListResponse{
		LatestSyncRevision: rev,
		Notes:              h.noteService.Describe(notes, includeNotes),
	})
}

// Get is GET /api/1.0/{username}/notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	owner := vars["username"]
	guid := vars["id"]
	requester := middleware.GetUsername(r)
	if requester == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	note, err := h.noteService.Get(r.Context(), requester, owner, guid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			response.Forbidden(w, "note is private")
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(w, "note not found")
		default:
			response.InternalError(w, "failed to get note")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"note": []domain.NoteDetail{note.Detail()},
	})
}
