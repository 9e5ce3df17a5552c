package repository

import "errors"

// ErrNotFound is returned by writes whose target row no longer exists.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate matches any *DuplicateError through errors.Is.
var ErrDuplicate = errors.New("duplicate key")

// DuplicateError reports a unique-index violation on Field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already exists"
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
