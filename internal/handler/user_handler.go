package handler

import (
	"errors"
	"net/http"

	"notesync-server/internal/middleware"
	"notesync-server/internal/service"
	"notesync-server/pkg/response"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Meta is GET /api/1.0/{username}: profile names, a notes reference and
// the user's latest sync revision.
func (h *UserHandler) Meta(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if middleware.GetUsername(r) == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	meta, err := h.userService.Meta(r.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w, "failed to load user")
		return
	}

	response.JSON(w, http.StatusOK, meta)
}
