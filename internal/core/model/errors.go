package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity is required to exist and does not.
	ErrNotFound = errors.New("entity was not found")

	// ErrAuthRequired is returned when there is no verified identity behind a request.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInvalidArgument is returned for malformed ids, page sizes and request bodies.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidAttribute is returned when an attribute is not part of the recognized vocabulary.
	ErrInvalidAttribute = errors.New("invalid attribute")

	// ErrPermissionDenied is returned when a non-owner attempts an owner-only mutation or a
	// non-member attempts to access a project chat.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPreconditionFailed is returned on matching state-machine violations.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrPartialWrite is returned when a multi-document sequence modified fewer documents than
	// expected. Already applied writes are not rolled back.
	ErrPartialWrite = errors.New("partial write")
)

// Error is a domain error carrying a reason that can be shown verbatim to the end user.
// It unwraps to one of the sentinel errors of this package.
type Error struct {
	// Kind is the sentinel error classifying the failure.
	Kind error

	// Reason is the human-readable description of the failure.
	Reason string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	return e.Reason
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the user facing reason of err, if err carries one.
func ReasonOf(err error) (string, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Reason, true
	}
	return "", false
}
