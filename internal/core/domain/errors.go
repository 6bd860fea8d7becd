package domain

import "errors"

// Domain errors represent conversion failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateKey indicates a key that must be unique appears more than once.
	// The input is ambiguous and the run cannot continue.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrAmbiguousParent indicates an input data belongs to more than one task.
	ErrAmbiguousParent = errors.New("input data belongs to more than one task")

	// ErrUnsupportedFormat indicates a path that is neither a ZIP file nor a directory.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidRLE indicates run-length counts that do not describe the declared size.
	ErrInvalidRLE = errors.New("invalid RLE")

	// ErrCommandFailed indicates an external command exited with a non-zero status.
	ErrCommandFailed = errors.New("command failed")
)
