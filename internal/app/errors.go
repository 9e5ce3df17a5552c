package app

import "errors"

var (
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrEmailExists       = errors.New("email already exists")
	ErrSlugExists        = errors.New("slug already exists")
	ErrPostNotFound      = errors.New("post not found")
	ErrForbidden         = errors.New("forbidden")

	ErrTokenMissing = errors.New("access denied: no token provided")
	ErrTokenRevoked = errors.New("token has been invalidated (logged out), please log in again")
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// ForbiddenError is returned when the requester does not own the post it
// tries to change. It matches ErrForbidden through errors.Is.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return "not authorized to " + e.Action + " this post"
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}
