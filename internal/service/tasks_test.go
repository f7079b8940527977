package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/cardmaster/internal/models"
	"github.com/atinyakov/cardmaster/internal/service"
)

func TestCreateTask(t *testing.T) {
	s, _ := newTestState(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, manager, models.Task{Title: "Thu tiền", AssignedTo: []string{"user"}})
	require.NoError(t, err)

	assert.Equal(t, models.TaskTodo, task.Status)
	assert.Equal(t, "manager", task.CreatedBy)
	assert.Equal(t, "Quản lý B", task.CreatedByName)
	assert.Equal(t, "15/10/2026", task.CreatedAt)
	assert.Equal(t, []string{"Nhân viên A"}, task.AssignedToNames)
	assert.Empty(t, task.Comments)

	notes := s.NotificationsFor("user")
	require.Len(t, notes, 1)
	assert.Equal(t, "user", notes[0].TargetUser)
	assert.False(t, notes[0].Read)
	assert.Equal(t, task.ID, notes[0].TaskID)
	assert.Equal(t, 1, s.UnreadCount("user"))
	assert.Equal(t, 0, s.UnreadCount("manager"))
}

func TestCreateTask_Defaults(t *testing.T) {
	s, _ := newTestState(t)
	task, err := s.CreateTask(context.Background(), admin, models.Task{Title: "Không giao"})
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, task.AssignedTo)
	assert.Equal(t, []string{"Nhân viên A"}, task.AssignedToNames)
}

func TestCreateTask_UserForbidden(t *testing.T) {
	s, store := newTestState(t)
	_, err := s.CreateTask(context.Background(), user, models.Task{Title: "x"})
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Empty(t, s.TasksFor(admin))
	assert.Empty(t, store.Keys())
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*service.State, models.Task) {
		t.Helper()
		s, _ := newTestState(t)
		task, err := s.CreateTask(ctx, admin, models.Task{Title: "Đối soát", AssignedTo: []string{"user", "manager"}})
		require.NoError(t, err)
		return s, task
	}

	t.Run("status change broadcasts", func(t *testing.T) {
		s, task := setup(t)
		before := len(s.Snapshot().Notifications)

		task.Status = models.TaskInProgress
		got, err := s.UpdateTask(ctx, manager, task)
		require.NoError(t, err)
		assert.Equal(t, models.TaskInProgress, got.Status)

		notes := s.Snapshot().Notifications
		require.Len(t, notes, before+1)
		assert.Empty(t, notes[0].TargetUser)
		assert.Equal(t, `Công việc "Đối soát" đã chuyển sang: IN_PROGRESS`, notes[0].Message)
	})

	t.Run("edit notifies assignees", func(t *testing.T) {
		s, task := setup(t)
		before := len(s.Snapshot().Notifications)

		task.Description = "Kiểm tra lại"
		_, err := s.UpdateTask(ctx, admin, task)
		require.NoError(t, err)
		assert.Len(t, s.Snapshot().Notifications, before+len(task.AssignedTo))
	})

	t.Run("user may only change status", func(t *testing.T) {
		s, task := setup(t)

		changed := task
		changed.Title = "Hacked"
		changed.Status = models.TaskDone
		got, err := s.UpdateTask(ctx, user, changed)
		require.NoError(t, err)
		assert.Equal(t, "Đối soát", got.Title)
		assert.Equal(t, models.TaskDone, got.Status)
	})

	t.Run("user cannot touch unassigned task", func(t *testing.T) {
		s, _ := newTestState(t)
		task, err := s.CreateTask(ctx, admin, models.Task{Title: "Riêng", AssignedTo: []string{"manager"}})
		require.NoError(t, err)

		task.Status = models.TaskDone
		_, err = s.UpdateTask(ctx, user, task)
		assert.ErrorIs(t, err, service.ErrForbidden)
		assert.Equal(t, models.TaskTodo, s.TasksFor(admin)[0].Status)
	})

	t.Run("comments are kept", func(t *testing.T) {
		s, task := setup(t)
		_, err := s.AddTaskComment(ctx, user, task.ID, "ok")
		require.NoError(t, err)

		task.Comments = nil
		got, err := s.UpdateTask(ctx, admin, task)
		require.NoError(t, err)
		assert.Len(t, got.Comments, 1)
	})

	t.Run("unchanged update is silent", func(t *testing.T) {
		s, task := setup(t)
		before := s.Snapshot()

		ignored := task
		ignored.Title = "Đổi tên"
		ignored.AssignedTo = []string{"user"}
		got, err := s.UpdateTask(ctx, user, ignored)
		require.NoError(t, err)
		assert.Equal(t, "Đối soát", got.Title)

		_, err = s.UpdateTask(ctx, admin, task)
		require.NoError(t, err)
		assert.Equal(t, before, s.Snapshot())
	})

	t.Run("unknown task changes nothing", func(t *testing.T) {
		s, _ := setup(t)
		before := s.Snapshot()
		_, err := s.UpdateTask(ctx, admin, models.Task{ID: "NOPE", Title: "x"})
		require.NoError(t, err)
		assert.Equal(t, before, s.Snapshot())
	})
}

func TestChangeTaskStatus(t *testing.T) {
	s, _ := newTestState(t)
	ctx := context.Background()
	task, err := s.CreateTask(ctx, admin, models.Task{Title: "Đối soát", AssignedTo: []string{"user"}})
	require.NoError(t, err)

	got, err := s.ChangeTaskStatus(ctx, user, task.ID, models.TaskDone)
	require.NoError(t, err)
	assert.Equal(t, models.TaskDone, got.Status)

	_, err = s.ChangeTaskStatus(ctx, user, task.ID, "LATER")
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
	_, err = s.ChangeTaskStatus(ctx, user, "NOPE", models.TaskTodo)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAddTaskComment(t *testing.T) {
	s, _ := newTestState(t)
	ctx := context.Background()
	task, err := s.CreateTask(ctx, admin, models.Task{Title: "Đối soát", AssignedTo: []string{"user"}})
	require.NoError(t, err)

	c, err := s.AddTaskComment(ctx, user, task.ID, "  Xong rồi  ")
	require.NoError(t, err)
	assert.Equal(t, "Xong rồi", c.Text)
	assert.Equal(t, "user", c.Author)
	assert.Equal(t, "Nhân viên A", c.AuthorName)
	assert.Equal(t, "15/10/2026 09:30", c.Timestamp)

	adminNotes := s.NotificationsFor("admin")
	require.Len(t, adminNotes, 1)
	assert.Equal(t, `Nhân viên A đã bình luận trong "Đối soát"`, adminNotes[0].Message)

	// The author's own comment still counts as an update for the assignees.
	userNotes := s.NotificationsFor("user")
	require.Len(t, userNotes, 2)
	assert.Equal(t, `Công việc "Đối soát" có cập nhật mới.`, userNotes[0].Message)

	_, err = s.AddTaskComment(ctx, admin, task.ID, "Nhớ gửi sao kê")
	require.NoError(t, err)
	userNotes = s.NotificationsFor("user")
	require.Len(t, userNotes, 4)
	assert.Equal(t, `Administrator đã bình luận trong "Đối soát"`, userNotes[0].Message)
	assert.Equal(t, `Công việc "Đối soát" có cập nhật mới.`, userNotes[1].Message)
	assert.Len(t, s.NotificationsFor("admin"), 1)

	_, err = s.AddTaskComment(ctx, user, task.ID, "   ")
	assert.ErrorIs(t, err, service.ErrEmptyComment)
	_, err = s.AddTaskComment(ctx, user, "NOPE", "hi")
	assert.ErrorIs(t, err, service.ErrNotFound)

	outsider := models.User{ID: "9", Username: "other", FullName: "Other", Role: models.RoleUser}
	_, err = s.AddTaskComment(ctx, outsider, task.ID, "hi")
	assert.ErrorIs(t, err, service.ErrForbidden)

	assert.Len(t, s.TasksFor(admin)[0].Comments, 2)
}

func TestTasksFor(t *testing.T) {
	s, _ := newTestState(t)
	ctx := context.Background()
	_, err := s.CreateTask(ctx, admin, models.Task{Title: "A", AssignedTo: []string{"user"}})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, admin, models.Task{Title: "B", AssignedTo: []string{"manager"}})
	require.NoError(t, err)

	assert.Len(t, s.TasksFor(admin), 2)
	assert.Len(t, s.TasksFor(manager), 2)
	mine := s.TasksFor(user)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].Title)
}

func TestNotifications(t *testing.T) {
	s, _ := newTestState(t)
	ctx := context.Background()
	task, err := s.CreateTask(ctx, admin, models.Task{Title: "A", AssignedTo: []string{"user"}})
	require.NoError(t, err)
	_, err = s.ChangeTaskStatus(ctx, admin, task.ID, models.TaskDone)
	require.NoError(t, err)

	assert.Equal(t, 2, s.UnreadCount("user"), "targeted plus broadcast")
	assert.Equal(t, 1, s.UnreadCount("manager"), "broadcast only")

	targeted := s.NotificationsFor("user")[1]
	_, err = s.MarkNotificationRead(ctx, manager, targeted.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	n, err := s.MarkNotificationRead(ctx, user, targeted.ID)
	require.NoError(t, err)
	assert.True(t, n.Read)
	assert.Equal(t, task.ID, n.TaskID)
	assert.Equal(t, 1, s.UnreadCount("user"))

	_, err = s.MarkNotificationRead(ctx, user, "NOPE")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
