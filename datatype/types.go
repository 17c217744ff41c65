// Package datatype implements the plugin-style data-type registry and the
// scalar/vector comparison-kernel factories the scanning engine is built
// around: DataTypeRef, DataType, AnonymousValueContainer, DataValue, and
// the predicate surface (ScanCompareType).
//
// The upstream debugger this engine is patterned after expresses typed
// values through DWARF type descriptors read out of a running inferior
// (see program/server/peek.go's StructType/IntType/UintType switches).
// There is no DWARF here -- types are named by a short string id instead
// of a compiled-in symbol -- but the "read N bytes, interpret according to
// a type descriptor, compare" shape is the same.
package datatype

import "encoding/binary"

// Endian names the byte order a numeric type reads and writes memory in.
type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

// ByteOrder returns the encoding/binary.ByteOrder matching e.
func (e Endian) ByteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (e Endian) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// DataTypeMetaData carries the container information a DataTypeRef needs
// beyond its id: the element count for byte_array, the declared length for
// string_utf8. Zero value means "scalar, no container metadata".
type DataTypeMetaData struct {
	// Length is the element/byte count for byte_array and string_utf8.
	// Zero means "unspecified" for string_utf8 (the value's own length is
	// used) and is invalid for byte_array.
	Length int
}

// DataTypeRef is a weak, serializable handle to a registered data type.
// It round-trips through serialization even when Registry no longer knows
// the id -- only attempts to resolve it through a Registry can fail.
type DataTypeRef struct {
	ID       string
	Metadata DataTypeMetaData
}

// AnonymousKind selects which textual form an AnonymousValue was entered
// in, before any data type has been chosen.
type AnonymousKind uint8

const (
	Decimal AnonymousKind = iota
	Hex
	Binary
)

func (k AnonymousKind) String() string {
	switch k {
	case Hex:
		return "hex"
	case Binary:
		return "binary"
	default:
		return "decimal"
	}
}

// AnonymousValue is a user-entered value before it has been interpreted
// against a specific DataType: one of a decimal, hex, or binary textual
// form, tagged by Kind.
type AnonymousValue struct {
	Kind AnonymousKind
	Text string
}

// DataValue is owned bytes interpreted under a DataTypeRef. For
// fixed-size types len(Bytes) == the type's unit size; for byte_array and
// string_utf8 it is the container's configured length.
type DataValue struct {
	Bytes []byte
	Type  DataTypeRef
}

// DisplayValues is the rendering of one DataValue's bytes in the three
// textual forms the UI layer needs.
type DisplayValues struct {
	Binary  string
	Decimal string
	Hex     string
}
