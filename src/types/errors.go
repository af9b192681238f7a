package types

import "fmt"

// ValidationError aborts an operation before anything is persisted. The
// message is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PermissionError is raised on ownership mismatches and maps to a 403.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

func NewPermissionError(format string, args ...any) *PermissionError {
	return &PermissionError{Message: fmt.Sprintf(format, args...)}
}

// CapacityExceededError reports how many tickets were requested against how
// many remain so the caller can render a useful message.
type CapacityExceededError struct {
	TicketTypeTitle string
	Requested       int
	Remaining       int64
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("only %d tickets of type %q left, %d requested", e.Remaining, e.TicketTypeTitle, e.Requested)
}
