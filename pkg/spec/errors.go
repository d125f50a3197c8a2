package spec

import (
	"errors"
	"strings"
)

// Error codes returned by ErrorCode and rendered in CLI and API output.
const (
	CodeInvalidArgument   = "invalid_argument"
	CodeDuplicateID       = "duplicate_id"
	CodeNotFound          = "not_found"
	CodeCyclicDependency  = "cyclic_dependency"
	CodeResourceExhausted = "resource_exhausted"
	CodeInternal          = "internal"
)

// InvalidArgumentError is returned for empty or malformed identifiers and
// payloads.
type InvalidArgumentError struct {
	ID      string
	Field   string
	Message string
}

func (e InvalidArgumentError) Error() string {
	var b strings.Builder
	b.WriteString("invalid argument")
	if e.Field != "" {
		b.WriteString(" " + e.Field)
	}
	if e.ID != "" {
		b.WriteString(" for " + e.ID)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	return b.String()
}

func (e InvalidArgumentError) Code() string { return CodeInvalidArgument }

// DuplicateIDError is returned when creating a node whose id already exists.
type DuplicateIDError struct {
	ID string
}

func (e DuplicateIDError) Error() string {
	return "node already exists: " + e.ID
}

func (e DuplicateIDError) Code() string { return CodeDuplicateID }

// NotFoundError is returned when a node or backup snapshot doesn't exist.
type NotFoundError struct {
	// Kind is what was looked up, "node" when empty.
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "node"
	}

	if e.ID == "" {
		return kind + " not found"
	}
	return kind + " not found: " + e.ID
}

func (e NotFoundError) Code() string { return CodeNotFound }

// CyclicDependencyError is a graph-level error naming every node left on a
// dependency cycle. It is not attributed to a single node.
type CyclicDependencyError struct {
	IDs []string
}

func (e CyclicDependencyError) Error() string {
	return "cyclic dependency among: " + strings.Join(e.IDs, ", ")
}

func (e CyclicDependencyError) Code() string { return CodeCyclicDependency }

// ResourceExhaustedError is returned when the id space is used up.
type ResourceExhaustedError struct {
	Message string
}

func (e ResourceExhaustedError) Error() string {
	if e.Message == "" {
		return "resource exhausted"
	}
	return "resource exhausted: " + e.Message
}

func (e ResourceExhaustedError) Code() string { return CodeResourceExhausted }

type coder interface {
	Code() string
}

// ErrorCode returns the taxonomy code of err, looking through wrapping.
// Unknown errors map to CodeInternal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return CodeInternal
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	return errors.As(err, new(NotFoundError))
}
