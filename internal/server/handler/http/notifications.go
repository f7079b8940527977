package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/cardmaster/internal/middleware"
	"github.com/atinyakov/cardmaster/internal/models"
)

// NotificationService defines the operations required by NotificationHandler.
type NotificationService interface {
	NotificationsFor(username string) []models.Notification
	UnreadCount(username string) int
	MarkNotificationRead(ctx context.Context, actor models.User, id string) (models.Notification, error)
}

// NotificationHandler handles the caller's notification feed.
type NotificationHandler struct {
	Service NotificationService
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsernameFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.Service.NotificationsFor(username))
}

// Unread handles GET /api/notifications/unread.
func (h *NotificationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsernameFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"count": h.Service.UnreadCount(username)})
}

// MarkRead handles POST /api/notifications/{id}/read. The response carries
// the notification so the client can open the linked task.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	n, err := h.Service.MarkNotificationRead(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
