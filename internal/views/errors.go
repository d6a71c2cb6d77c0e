package views

import (
	"errors"
	"fmt"
)

// Engine errors
var (
	// ErrTemplateNotFound reports a kind that does not resolve against the
	// application manifest.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateNoCanvas reports a template screen without a canvas.
	ErrTemplateNoCanvas = errors.New("template has no canvas")

	// ErrLeaseReleased reports use of a lease after release.
	ErrLeaseReleased = errors.New("template lease already released")
)

// HostMutationError wraps a failed host-tree operation with the operation
// that failed. Teardown already performed before the failure is not rolled
// back; the host has no transactional rollback.
type HostMutationError struct {
	Op  string
	Err error
}

func (e *HostMutationError) Error() string {
	return fmt.Sprintf("host mutation %s: %v", e.Op, e.Err)
}

func (e *HostMutationError) Unwrap() error {
	return e.Err
}

// mutation wraps a host error, passing nil through untouched.
func mutation(op string, err error) error {
	if err == nil {
		return nil
	}
	return &HostMutationError{Op: op, Err: err}
}

// CascadeError reports a failure inside a nested recursive update. It names
// the template whose cascade failed and carries the originating error.
type CascadeError struct {
	Kind string
	Err  error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade for template %q: %v", e.Kind, e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}
