package service

import "github.com/atinyakov/cardmaster/internal/models"

func canUpdateTransaction(actor models.User) bool { return actor.Role.CanEdit() }

func canDeleteTransaction(actor models.User) bool { return actor.Role == models.RoleAdmin }

func canDeleteCustomer(actor models.User) bool { return actor.Role == models.RoleAdmin }

func canManageUsers(actor models.User) bool { return actor.Role.CanEdit() }

func canDeleteUser(actor, target models.User) bool {
	return actor.Role == models.RoleAdmin && actor.ID != target.ID
}

func canManageTasks(actor models.User) bool { return actor.Role.CanEdit() }

// canChangeTaskStatus allows editors on any task and plain users on the
// tasks assigned to them.
func canChangeTaskStatus(actor models.User, task models.Task) bool {
	return actor.Role.CanEdit() || task.IsAssigned(actor.Username)
}

func canComment(actor models.User, task models.Task) bool {
	return actor.Role.CanEdit() || task.IsAssigned(actor.Username) || task.CreatedBy == actor.Username
}

func canEditSettings(actor models.User) bool { return actor.Role == models.RoleAdmin }
