package service

import (
	"fmt"
	"time"

	"github.com/atinyakov/cardmaster/internal/models"
)

// Dispatcher builds the notifications produced by task activity. It does not
// store them; the State prepends whatever a call returns.
type Dispatcher struct {
	newID func() string
	now   func() time.Time
}

// NewDispatcher returns a Dispatcher stamping notifications with ids from
// newID and dates from now.
func NewDispatcher(newID func() string, now func() time.Time) *Dispatcher {
	return &Dispatcher{newID: newID, now: now}
}

// NotifyAssignees returns one unread notification per distinct username.
func (d *Dispatcher) NotifyAssignees(message, taskID string, usernames []string) []models.Notification {
	seen := make(map[string]struct{}, len(usernames))
	out := make([]models.Notification, 0, len(usernames))
	for _, u := range usernames {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, d.build(message, taskID, u))
	}
	return out
}

// Broadcast returns a single notification visible to everyone.
func (d *Dispatcher) Broadcast(message, taskID string) []models.Notification {
	return []models.Notification{d.build(message, taskID, "")}
}

// TaskCreated notifies every assignee of a new task.
func (d *Dispatcher) TaskCreated(task models.Task) []models.Notification {
	return d.NotifyAssignees(fmt.Sprintf("Bạn được giao công việc mới: %s", task.Title), task.ID, task.AssignedTo)
}

// TaskUpdated broadcasts a status change, or tells the assignees about any
// other change.
func (d *Dispatcher) TaskUpdated(old, updated models.Task) []models.Notification {
	if old.Status != updated.Status {
		return d.Broadcast(fmt.Sprintf("Công việc \"%s\" đã chuyển sang: %s", updated.Title, updated.Status), updated.ID)
	}
	return d.NotifyAssignees(fmt.Sprintf("Công việc \"%s\" có cập nhật mới.", updated.Title), updated.ID, updated.AssignedTo)
}

// CommentAdded notifies the assignees and the creator of a task about a new
// comment, leaving out the comment's author.
func (d *Dispatcher) CommentAdded(task models.Task, c models.TaskComment) []models.Notification {
	recipients := make([]string, 0, len(task.AssignedTo)+1)
	for _, u := range task.AssignedTo {
		if u != c.Author {
			recipients = append(recipients, u)
		}
	}
	if task.CreatedBy != "" && task.CreatedBy != c.Author {
		recipients = append(recipients, task.CreatedBy)
	}
	return d.NotifyAssignees(fmt.Sprintf("%s đã bình luận trong \"%s\"", c.AuthorName, task.Title), task.ID, recipients)
}

func (d *Dispatcher) build(message, taskID, target string) models.Notification {
	return models.Notification{
		ID:         d.newID(),
		Message:    message,
		Timestamp:  models.FormatDate(d.now()),
		TaskID:     taskID,
		TargetUser: target,
	}
}
