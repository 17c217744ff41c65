// Package errs defines the error kinds that cross the scanning engine's
// public API: the ones a caller is expected to inspect with errors.Is/As,
// as opposed to ad-hoc fmt.Errorf wrapping used for internal plumbing.
package errs

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Each typed error below wraps one of these.
var (
	ErrParse               = errors.New("value does not parse for this data type")
	ErrUnregisteredType    = errors.New("data type is not registered")
	ErrUnsupportedPredicate = errors.New("data type does not support this predicate")
	ErrReadFailure         = errors.New("memory read failed")
	ErrInvalidScanParams   = errors.New("invalid scan parameters")
)

// ParseError reports that an AnonymousValueContainer could not be decoded
// into bytes for a particular data type.
type ParseError struct {
	Text     string
	TypeID   string
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("parse %q as %s: %s", e.Text, e.TypeID, e.Reason)
	}
	return fmt.Sprintf("parse %q as %s", e.Text, e.TypeID)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// UnregisteredType reports that a DataTypeRef names an id the registry
// does not currently know about.
type UnregisteredType struct {
	ID string
}

func (e *UnregisteredType) Error() string {
	return fmt.Sprintf("data type %q is not registered", e.ID)
}

func (e *UnregisteredType) Unwrap() error { return ErrUnregisteredType }

// UnsupportedPredicate reports that a data type has no comparison kernel
// (scalar or vector) for the requested predicate.
type UnsupportedPredicate struct {
	TypeID    string
	Predicate string
	Path      string // "scalar" or "vector"
}

func (e *UnsupportedPredicate) Error() string {
	return fmt.Sprintf("%s path: %s does not support predicate %s", e.Path, e.TypeID, e.Predicate)
}

func (e *UnsupportedPredicate) Unwrap() error { return ErrUnsupportedPredicate }

// ReadFailure reports that the OS refused a memory read at an address.
// The snapshot reader neither returns nor stores it: a failed read is
// absorbed as a page boundary tombstone (a flag in
// SnapshotRegion.PageBoundaryTombstones) and logged.
type ReadFailure struct {
	Address uint64
	Cause   error
}

func (e *ReadFailure) Error() string {
	return fmt.Sprintf("read failed at 0x%x: %v", e.Address, e.Cause)
}

func (e *ReadFailure) Unwrap() error { return ErrReadFailure }

// InvalidScanParameters reports a predicate/type mismatch, such as a delta
// predicate with no accompanying value.
type InvalidScanParameters struct {
	Reason string
}

func (e *InvalidScanParameters) Error() string {
	return fmt.Sprintf("invalid scan parameters: %s", e.Reason)
}

func (e *InvalidScanParameters) Unwrap() error { return ErrInvalidScanParams }
