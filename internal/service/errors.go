package service

import "errors"

var (
	// ErrRevisionConflict means the client's claimed revision does not
	// match the owner's current revision + 1; the batch was rejected
	// whole and the client must re-fetch and retry.
	ErrRevisionConflict = errors.New("sync revision conflict")

	// ErrMalformedRecord means a change record was missing its guid or
	// carried an unparseable date; nothing from the batch was applied.
	ErrMalformedRecord = errors.New("malformed change record")

	// ErrForbidden means the caller is not allowed to touch the target
	// collection.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the requested user, profile or note does not exist.
	ErrNotFound = errors.New("not found")
)
