package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/cardmaster/internal/middleware"
	"github.com/atinyakov/cardmaster/internal/models"
)

// TaskService defines the task board operations required by TaskHandler.
type TaskService interface {
	TasksFor(actor models.User) []models.Task
	CreateTask(ctx context.Context, actor models.User, t models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, actor models.User, t models.Task) (models.Task, error)
	ChangeTaskStatus(ctx context.Context, actor models.User, id string, status models.TaskStatus) (models.Task, error)
	AddTaskComment(ctx context.Context, actor models.User, id, text string) (models.TaskComment, error)
}

// TaskHandler handles the task board.
type TaskHandler struct {
	Service TaskService
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.Service.TasksFor(actor))
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var t models.Task
	if !decodeJSON(w, r, &t) {
		return
	}
	created, err := h.Service.CreateTask(r.Context(), actor, t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var t models.Task
	if !decodeJSON(w, r, &t) {
		return
	}
	t.ID = chi.URLParam(r, "id")
	updated, err := h.Service.UpdateTask(r.Context(), actor, t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// StatusRequest is the body of a status change.
type StatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

// ChangeStatus handles PATCH /api/tasks/{id}/status.
func (h *TaskHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.Service.ChangeTaskStatus(r.Context(), actor, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// CommentRequest is the body of a new comment.
type CommentRequest struct {
	Text string `json:"text"`
}

// Comment handles POST /api/tasks/{id}/comments.
func (h *TaskHandler) Comment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.Service.AddTaskComment(r.Context(), actor, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
