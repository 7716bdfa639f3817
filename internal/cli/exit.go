package cli

import "fmt"

// ExitError carries a process exit code out of a command.
// The message has already been shown to the user when Reported is set.
type ExitError struct {
	ExitCode int
	Reason   string
	Reported bool
}

func (e *ExitError) Error() string {
	return e.Reason
}

func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{ExitCode: code, Reason: fmt.Sprintf(format, args...), Reported: true}
}
