package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/cardmaster/internal/middleware"
	"github.com/atinyakov/cardmaster/internal/models"
)

// UserService defines the account management operations required by
// UserHandler.
type UserService interface {
	Users() []models.User
	AddUser(ctx context.Context, actor, u models.User) (models.User, error)
	UpdateUser(ctx context.Context, actor, u models.User) (models.User, error)
	DeleteUser(ctx context.Context, actor models.User, id string) error
}

// UserHandler handles staff account management.
type UserHandler struct {
	Service UserService
}

// List handles GET /api/users. Passwords are never returned.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, publicUsers(h.Service.Users()))
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var u models.User
	if !decodeJSON(w, r, &u) {
		return
	}
	created, err := h.Service.AddUser(r.Context(), actor, u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, publicUser(created))
}

// Update handles PUT /api/users/{id}. An empty password keeps the current one.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var u models.User
	if !decodeJSON(w, r, &u) {
		return
	}
	u.ID = chi.URLParam(r, "id")
	updated, err := h.Service.UpdateUser(r.Context(), actor, u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(updated))
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	if err := h.Service.DeleteUser(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
