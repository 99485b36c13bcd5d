package repository

import "errors"

// Sentinel kinds for dataset store errors.
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrClosed          = errors.New("store closed")
)
