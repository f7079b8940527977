package service

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/cardmaster/internal/models"
)

// Default assignee of a task created without one.
const (
	defaultAssignee     = "user"
	defaultAssigneeName = "Nhân viên A"
)

// CreateTask adds a task in the TODO column and notifies its assignees.
// Only admins and managers may create tasks.
func (s *State) CreateTask(ctx context.Context, actor models.User, t models.Task) (models.Task, error) {
	if !canManageTasks(actor) {
		return models.Task{}, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = s.newID()
	}
	if len(t.AssignedTo) == 0 {
		t.AssignedTo = []string{defaultAssignee}
		t.AssignedToNames = []string{defaultAssigneeName}
	}
	t.AssignedToNames = s.assigneeNamesLocked(t.AssignedTo, t.AssignedToNames)
	t.Status = models.TaskTodo
	t.CreatedBy = actor.Username
	t.CreatedByName = actor.FullName
	t.CreatedAt = s.today()
	t.Comments = []models.TaskComment{}

	s.tasks = slices.Insert(s.tasks, 0, t)
	s.pushNotificationsLocked(s.notify.TaskCreated(t))
	s.flush(ctx)
	s.log.Info("task created",
		zap.String("id", t.ID),
		zap.Strings("assignees", t.AssignedTo),
		zap.String("by", actor.Username),
	)
	return t, nil
}

// UpdateTask replaces the editable fields of the task with the same id.
// Admins and managers may change the title, description, assignees and
// status. Plain users may only move a task assigned to them to another
// status; their other changes are ignored. Comments are always kept.
// Updating an unknown id, or an update that changes nothing, is a no-op.
func (s *State) UpdateTask(ctx context.Context, actor models.User, t models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.tasks, func(v models.Task) bool { return v.ID == t.ID })
	if i < 0 {
		return t, nil
	}
	old := s.tasks[i]
	if t.Status == "" {
		t.Status = old.Status
	}
	if !t.Status.Valid() {
		return models.Task{}, ErrInvalidStatus
	}

	updated := old
	switch {
	case canManageTasks(actor):
		updated.Title = t.Title
		updated.Description = t.Description
		if len(t.AssignedTo) > 0 {
			updated.AssignedTo = t.AssignedTo
			updated.AssignedToNames = s.assigneeNamesLocked(t.AssignedTo, t.AssignedToNames)
		}
		updated.Status = t.Status
	case canChangeTaskStatus(actor, old):
		updated.Status = t.Status
	default:
		return models.Task{}, ErrForbidden
	}

	if !taskChanged(old, updated) {
		return updated, nil
	}

	s.tasks[i] = updated
	s.pushNotificationsLocked(s.notify.TaskUpdated(old, updated))
	s.flush(ctx)
	return updated, nil
}

// taskChanged reports whether an update altered any editable field.
func taskChanged(old, updated models.Task) bool {
	return old.Title != updated.Title ||
		old.Description != updated.Description ||
		old.Status != updated.Status ||
		!slices.Equal(old.AssignedTo, updated.AssignedTo)
}

// ChangeTaskStatus moves a task to another column.
func (s *State) ChangeTaskStatus(ctx context.Context, actor models.User, id string, status models.TaskStatus) (models.Task, error) {
	if !status.Valid() {
		return models.Task{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.tasks, func(v models.Task) bool { return v.ID == id })
	if i < 0 {
		return models.Task{}, ErrNotFound
	}
	old := s.tasks[i]
	if !canChangeTaskStatus(actor, old) {
		return models.Task{}, ErrForbidden
	}

	updated := old
	updated.Status = status
	s.tasks[i] = updated
	s.pushNotificationsLocked(s.notify.TaskUpdated(old, updated))
	s.flush(ctx)
	return updated, nil
}

// AddTaskComment appends a comment by actor to the task. A comment is a task
// update, so the assignees get the update notice, then everyone involved
// except the author gets the comment notice.
func (s *State) AddTaskComment(ctx context.Context, actor models.User, id, text string) (models.TaskComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.TaskComment{}, ErrEmptyComment
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.tasks, func(v models.Task) bool { return v.ID == id })
	if i < 0 {
		return models.TaskComment{}, ErrNotFound
	}
	old := s.tasks[i]
	if !canComment(actor, old) {
		return models.TaskComment{}, ErrForbidden
	}

	c := models.TaskComment{
		ID:         s.newID(),
		Author:     actor.Username,
		AuthorName: actor.FullName,
		Text:       text,
		Timestamp:  models.FormatDateTime(s.now()),
	}
	task := old
	task.Comments = append(slices.Clone(old.Comments), c)
	s.tasks[i] = task
	s.pushNotificationsLocked(s.notify.TaskUpdated(old, task))
	s.pushNotificationsLocked(s.notify.CommentAdded(task, c))
	s.flush(ctx)
	return c, nil
}

// TasksFor returns the tasks actor may see: plain users see the tasks
// assigned to them, everyone else sees all tasks.
func (s *State) TasksFor(actor models.User) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if actor.Role.CanEdit() {
		return slices.Clone(s.tasks)
	}
	out := make([]models.Task, 0)
	for _, t := range s.tasks {
		if t.IsAssigned(actor.Username) {
			out = append(out, t)
		}
	}
	return out
}

// assigneeNamesLocked keeps names when it matches usernames one to one and
// otherwise resolves display names from the accounts.
func (s *State) assigneeNamesLocked(usernames, names []string) []string {
	if len(names) == len(usernames) {
		return names
	}
	out := make([]string, len(usernames))
	for i, u := range usernames {
		out[i] = u
		if acc, ok := s.findUserLocked(u); ok {
			out[i] = acc.FullName
		}
	}
	return out
}
