// Package errs defines the error kinds the scheduling core returns to
// callers. Callers distinguish kinds with errors.As, so wrapping with
// fmt.Errorf("...: %w", err) is safe everywhere.
package errs

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed input: bad dates, inverted time
// windows, missing required fields.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

// Validationf builds a ValidationError with a formatted message
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// RuleViolationError carries every registration rule a candidate
// registration violates, not just the first one found.
type RuleViolationError struct {
	Rules []string
}

func (e *RuleViolationError) Error() string {
	return "rule violation: " + strings.Join(e.Rules, ", ")
}

// ConflictError reports a uniqueness or ordering conflict enforced at
// the storage layer, surfaced when an application-level check races.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Msg
}

// Conflictf builds a ConflictError with a formatted message
func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced resource that does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the given resource and id
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError reports an actor acting on a resource they do not own
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Msg
}

// Forbiddenf builds a ForbiddenError with a formatted message
func Forbiddenf(format string, args ...any) *ForbiddenError {
	return &ForbiddenError{Msg: fmt.Sprintf(format, args...)}
}
