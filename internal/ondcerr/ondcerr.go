// Package ondcerr classifies adapter errors into the handful of kinds
// the dispatcher and façade need to tell apart: whether a request was
// malformed, a seller/registry call failed, storage failed, a payload
// could not be decoded, a feature is not implemented, or the protocol
// itself was violated.
package ondcerr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Unknown Kind = iota
	Validation
	Upstream
	Database
	Serialization
	NotImplemented
	Protocol
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Upstream:
		return "upstream"
	case Database:
		return "database"
	case Serialization:
		return "serialization"
	case NotImplemented:
		return "not_implemented"
	case Protocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind, preserving Unwrap so
// callers can still errors.Is/errors.As through to e.g. sql.ErrNoRows.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Validationf(op, format string, args ...any) error {
	return wrap(Validation, op, fmt.Errorf(format, args...))
}

func Upstreamf(op string, err error) error {
	return wrap(Upstream, op, err)
}

func Databasef(op string, err error) error {
	return wrap(Database, op, err)
}

func Serializationf(op string, err error) error {
	return wrap(Serialization, op, err)
}

func NotImplementedf(op, format string, args ...any) error {
	return wrap(NotImplemented, op, fmt.Errorf(format, args...))
}

func Protocolf(op, format string, args ...any) error {
	return wrap(Protocol, op, fmt.Errorf(format, args...))
}

// KindOf reports the Kind an error was wrapped with, or Unknown if it
// was never wrapped by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
