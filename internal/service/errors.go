package service

import "errors"

var (
	// ErrAuthFailed is returned by Login for an unknown user or a wrong password.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrForbidden is returned when the actor's role does not allow the change.
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
	// ErrDuplicateUsername is returned when another account already has the username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrPasswordRequired is returned when a password change has no new password.
	ErrPasswordRequired = errors.New("new password required")
	// ErrPasswordMismatch is returned when the confirmation differs from the new password.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	ErrEmptyComment     = errors.New("comment text is empty")
)

// ErrInvalidStatus is returned for a task status outside TODO, IN_PROGRESS and DONE.
var ErrInvalidStatus = errors.New("invalid task status")
