package service

import (
	"context"
	"slices"

	"github.com/atinyakov/cardmaster/internal/models"
)

func (s *State) pushNotificationsLocked(ns []models.Notification) {
	if len(ns) == 0 {
		return
	}
	s.notifications = append(slices.Clone(ns), s.notifications...)
}

// NotificationsFor returns the notifications addressed to username or
// broadcast, newest first.
func (s *State) NotificationsFor(username string) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if n.VisibleTo(username) {
			out = append(out, n)
		}
	}
	return out
}

// UnreadCount returns how many notifications visible to username are unread.
func (s *State) UnreadCount(username string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if !n.Read && n.VisibleTo(username) {
			count++
		}
	}
	return count
}

// MarkNotificationRead flags a notification as read and returns it, so the
// caller can follow its TaskID.
func (s *State) MarkNotificationRead(ctx context.Context, actor models.User, id string) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.notifications, func(n models.Notification) bool { return n.ID == id })
	if i < 0 {
		return models.Notification{}, ErrNotFound
	}
	if !s.notifications[i].VisibleTo(actor.Username) {
		return models.Notification{}, ErrForbidden
	}
	s.notifications[i].Read = true
	s.flush(ctx)
	return s.notifications[i], nil
}
