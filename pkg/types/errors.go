package types

import "errors"

// Standard errors returned by the storage engine. Callers match them with
// errors.Is; wrapped variants carry operation context.
var (
	// ErrNotFound is returned when a project lookup by id or name misses.
	ErrNotFound = errors.New("project not found")

	// ErrNameConflict is returned when an insert or rename would violate
	// the library-wide name uniqueness constraint.
	ErrNameConflict = errors.New("project name already exists")

	// ErrInvalidName is returned when a project name is empty or blank.
	ErrInvalidName = errors.New("project name is required")

	// ErrInvalidPath is returned when a required source file does not
	// exist or is not a regular file.
	ErrInvalidPath = errors.New("content file not found")

	// ErrNoLibrary is returned by the manager when an operation is
	// attempted before a library root has been bound.
	ErrNoLibrary = errors.New("no library set")

	// ErrIO wraps copy, move, and delete failures on the primary path.
	// Best-effort cleanup paths collect these as warnings instead.
	ErrIO = errors.New("i/o failure")
)
