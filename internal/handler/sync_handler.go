package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"notesync-server/internal/domain"
	"notesync-server/internal/middleware"
	"notesync-server/internal/service"
	"notesync-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type SyncHandler struct {
	syncService *service.SyncService
	validate    *validator.Validate
}

func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		validate:    validator.New(),
	}
}

// Update is the batch-update endpoint: PUT /api/1.0/{username}/notes.
func (h *SyncHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["username"]
	caller := middleware.GetUsername(r)
	if caller == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req domain.SyncUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	res, err := h.syncService.ApplyBatch(r.Context(), caller, owner, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			response.Forbidden(w, "notes do not belong to caller")
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(w, "user not found")
		case errors.Is(err, service.ErrRevisionConflict):
			response.Conflict(w, "sync revision conflict, re-sync and retry")
		case errors.Is(err, service.ErrMalformedRecord):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "failed to apply sync batch")
		}
		return
	}

	response.JSON(w, http.StatusOK, res)
}
