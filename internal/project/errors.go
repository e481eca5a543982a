package project

import "errors"

// ErrNotFound is returned for ids that name no registered project.
var ErrNotFound = errors.New("project: not found")
