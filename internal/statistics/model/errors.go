package model

import "errors"

// ErrAccessDenied is returned when the caller is neither a reviewer nor an admin.
var ErrAccessDenied = errors.New("statistics are available to reviewers and admins only")
