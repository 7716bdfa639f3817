package stage

import "errors"

var (
	// ErrMissingFile is returned when a host file the installer edits is absent.
	ErrMissingFile = errors.New("required host file not found")

	// ErrMissingStub is returned when a stub tree lacks an entry the mapping table names.
	ErrMissingStub = errors.New("stub not found")

	// ErrWriteFailed is returned when a modified host file cannot be written back.
	ErrWriteFailed = errors.New("writing host file failed")
)
