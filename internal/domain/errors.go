package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the stable categories the HTTP
// layer and callers are allowed to depend on.
type Kind uint8

const (
	KindUnknown Kind = iota

	// KindInvalidArgument marks malformed or missing input. Nothing was
	// persisted.
	KindInvalidArgument

	// KindNotFound marks a missing user, cart line, order, or catalog
	// entry.
	KindNotFound

	// KindConflict is reserved. The current merge/idempotent semantics
	// never produce it.
	KindConflict

	// KindUnavailable marks a storage or downstream failure. The caller
	// should retry the whole logical operation and must not assume a
	// partial effect.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is the domain error type. It carries a Kind plus a human-readable
// message and optionally wraps a lower-level cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFoundf builds a KindNotFound error.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InvalidArgumentf builds a KindInvalidArgument error.
func InvalidArgumentf(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

// Unavailablef builds a KindUnavailable error wrapping cause.
func Unavailablef(cause error, format string, args ...any) error {
	return &Error{Kind: KindUnavailable, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf unwraps err looking for a domain Error and returns its Kind.
// Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a KindNotFound domain error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsInvalidArgument reports whether err is a KindInvalidArgument domain error.
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }
