// Package apperr defines the error kinds shared by the stores: validation
// failures, missing entities and illegal request-status transitions.
// HTTP handlers translate them to status codes in httputil.
package apperr

import "fmt"

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an operation that targeted a non-existent id.
type NotFoundError struct {
	Kind string // "playlist", "request", ...
	ID   string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found: " + e.ID
}

func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// InvalidTransitionError reports a request-status change the lifecycle
// state machine does not allow.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %q -> %q", e.From, e.To)
}
