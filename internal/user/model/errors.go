package model

import "errors"

var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidUserID indicates that the provided user ID is invalid (e.g., not a positive number).
	ErrInvalidUserID = errors.New("invalid user ID")
	// ErrInvalidRole indicates that the requested role is not one of user, reviewer, admin.
	ErrInvalidRole = errors.New("invalid role")
	// ErrNotAdmin indicates that the acting user is not allowed to assign roles.
	ErrNotAdmin = errors.New("only administrators can assign roles")
	// ErrUserInactive indicates that the account is disabled.
	ErrUserInactive = errors.New("user is inactive")
)
