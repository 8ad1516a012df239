package model

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound indicates that the reviewed project does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrReviewExists indicates that the reviewer already reviewed this project.
	ErrReviewExists = errors.New("review already exists for this reviewer")
	// ErrReviewLimitReached indicates that the project already collected the maximum number of reviews.
	ErrReviewLimitReached = errors.New("project already has the maximum number of reviews")
	// ErrNotReviewer indicates that the acting user is not allowed to submit reviews.
	ErrNotReviewer = errors.New("only reviewers can review projects")
	// ErrAccessDenied indicates that the acting user cannot see the requested reviews.
	ErrAccessDenied = errors.New("access to reviews denied")
	// ErrInvalidScore indicates that a criterion score is missing, non-numeric or out of range.
	ErrInvalidScore = errors.New("invalid criterion score")
	// ErrUnknownSchemaVersion indicates that no criterion schema is registered for the version.
	ErrUnknownSchemaVersion = errors.New("unknown schema version")
	// ErrInvalidSchema indicates that a criterion schema definition is malformed.
	ErrInvalidSchema = errors.New("invalid criterion schema")
)

// ScoreError describes which criterion made a record incomplete.
type ScoreError struct {
	Key    string
	Reason string
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidScore, e.Key, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidScore.
func (e *ScoreError) Unwrap() error {
	return ErrInvalidScore
}
