package datatype

import (
	"sync"

	"github.com/ptscan/ptscan/errs"
)

// ScalarFn is a scalar comparison kernel bound to one predicate and (for
// immediate/delta predicates) one user value. It performs one unaligned
// read of the type's unit size from current (and, for relative/delta
// predicates, from previous) and evaluates the predicate. Immediate
// predicates ignore previous; callers may pass nil.
type ScalarFn func(current, previous []byte) bool

// VectorFn is the vectorized counterpart of ScalarFn. It processes a
// width-byte window at once and returns a width-byte mask whose lanes are
// 0xFF where the predicate holds for that element and 0x00 otherwise. The
// returned slice is always len(current) long.
type VectorFn func(current, previous []byte) []byte

// DataType is the capability every registered type exposes: how big one
// unit is, how to decode/encode/display its values, and how to produce
// comparison kernels for the predicates it supports.
type DataType interface {
	ID() string
	IsSigned() bool
	IsFloatingPoint() bool
	Endian() Endian

	// UnitSize returns the number of bytes one element occupies. For
	// byte_array and string_utf8 this is meta.Length.
	UnitSize(meta DataTypeMetaData) int64

	DefaultValue(meta DataTypeMetaData) DataValue

	// Validate reports whether v is well-formed input for this type, i.e.
	// whether Deanonymize would succeed on it.
	Validate(meta DataTypeMetaData, v AnonymousValue) error

	// Deanonymize decodes a user-entered value into owned bytes.
	Deanonymize(meta DataTypeMetaData, v AnonymousValue) (DataValue, error)

	// DisplayValues renders bytes (one element, or meta.Length elements
	// for an array type) into binary/decimal/hex textual forms.
	DisplayValues(meta DataTypeMetaData, data []byte) (DisplayValues, error)

	// ScalarComparer returns a kernel for predicate p. immediate and delta
	// are nil for predicates that do not need them. Returns
	// UnsupportedPredicate if p has no scalar kernel for this type.
	ScalarComparer(meta DataTypeMetaData, p ScanCompareType, immediate, delta *DataValue, tol FloatingPointTolerance) (ScalarFn, error)

	// VectorComparer returns a width-byte-wide kernel for predicate p.
	// Returns UnsupportedPredicate if p has no vector kernel for this type
	// (this is always the case for byte_array: it is handled by
	// Boyer-Moore instead).
	VectorComparer(meta DataTypeMetaData, p ScanCompareType, width int, immediate, delta *DataValue, tol FloatingPointTolerance) (VectorFn, error)
}

// Registry is the process-wide, shared-read/exclusive-write mapping from
// type id to DataType capability. The zero value is not usable; use
// NewRegistry or the package-level Default registry.
type Registry struct {
	mu    sync.RWMutex
	types map[string]DataType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]DataType)}
}

// Register adds or replaces the type under its own ID(). Safe for
// concurrent use with Get/Deregister; takes the exclusive lock.
func (r *Registry) Register(t DataType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.ID()] = t
}

// Deregister removes a type by id, e.g. when a plugin is disabled.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.types, id)
}

// Get looks up a type by id under the shared lock.
func (r *Registry) Get(id string) (DataType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[id]
	return t, ok
}

// IDs returns every currently registered type id, unordered.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	return ids
}

// Resolve looks up ref.ID in the registry, returning UnregisteredType if
// it is not currently registered. A DataTypeRef remains valid to hold and
// serialize regardless of registration state; only Resolve can fail.
func (ref DataTypeRef) Resolve(r *Registry) (DataType, error) {
	t, ok := r.Get(ref.ID)
	if !ok {
		return nil, &errs.UnregisteredType{ID: ref.ID}
	}
	return t, nil
}

// Default is the process-wide registry that built-in types register
// themselves into on package init, and that the CLI and scanning package
// use unless a caller constructs its own Registry for plugin isolation.
var Default = NewRegistry()
