package model

import "errors"

var (
	// ErrProjectNotFound indicates that the requested project does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrAccessDenied indicates that the caller is neither the owner nor staff.
	ErrAccessDenied = errors.New("access to project denied")
	// ErrInvalidTitle indicates that the title is blank or too long.
	ErrInvalidTitle = errors.New("title must be between 1 and 255 characters")
	// ErrInvalidProjectID indicates that the path parameter is not a positive number.
	ErrInvalidProjectID = errors.New("invalid project ID")
)
