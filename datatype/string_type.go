package datatype

import (
	"bytes"

	"github.com/ptscan/ptscan/errs"
)

// stringUTF8Type stores a fixed-width UTF-8 buffer. meta.Length gives the
// container width; a Deanonymize call with meta.Length == 0 sizes the
// buffer to the literal text and returns that size in the resulting
// DataValue's own metadata, matching how byte_array's length is likewise
// carried on DataTypeRef rather than hardcoded on the type descriptor.
type stringUTF8Type struct{}

func (stringUTF8Type) ID() string     { return "string_utf8" }
func (stringUTF8Type) IsSigned() bool { return false }
func (stringUTF8Type) IsFloatingPoint() bool { return false }
func (stringUTF8Type) Endian() Endian { return LittleEndian }

func (stringUTF8Type) UnitSize(meta DataTypeMetaData) int64 {
	return int64(meta.Length)
}

func (stringUTF8Type) DefaultValue(meta DataTypeMetaData) DataValue {
	return DataValue{Bytes: make([]byte, meta.Length), Type: DataTypeRef{ID: "string_utf8", Metadata: meta}}
}

func (t stringUTF8Type) Validate(meta DataTypeMetaData, v AnonymousValue) error {
	_, err := t.Deanonymize(meta, v)
	return err
}

func decodeString(meta DataTypeMetaData, v AnonymousValue) (DataValue, error) {
	var raw []byte
	var err error
	switch v.Kind {
	case Decimal:
		raw = []byte(v.Text)
	case Hex:
		raw, err = decodeHexDigits(v.Text)
	case Binary:
		raw, err = decodeBinaryDigits(v.Text)
	}
	if err != nil {
		return DataValue{}, err
	}
	length := meta.Length
	if length <= 0 {
		length = len(raw)
	}
	if len(raw) > length {
		return DataValue{}, &errs.ParseError{Text: v.Text, TypeID: "string_utf8", Reason: "value longer than the configured length"}
	}
	buf := make([]byte, length)
	copy(buf, raw)
	return DataValue{Bytes: buf, Type: DataTypeRef{ID: "string_utf8", Metadata: DataTypeMetaData{Length: length}}}, nil
}

func (stringUTF8Type) Deanonymize(meta DataTypeMetaData, v AnonymousValue) (DataValue, error) {
	return decodeString(meta, v)
}

func (stringUTF8Type) DisplayValues(meta DataTypeMetaData, data []byte) (DisplayValues, error) {
	if len(data) == 0 {
		return DisplayValues{}, &errs.ParseError{TypeID: "string_utf8", Reason: "empty value"}
	}
	trimmed := bytes.TrimRight(data, "\x00")
	return DisplayValues{
		Binary:  rawBinaryString(data),
		Decimal: string(trimmed),
		Hex:     rawHexString(data),
	}, nil
}

func (stringUTF8Type) ScalarComparer(meta DataTypeMetaData, p ScanCompareType, immediate, delta *DataValue, tol FloatingPointTolerance) (ScalarFn, error) {
	size := meta.Length
	switch {
	case p.IsImmediate():
		if immediate == nil {
			return nil, &errs.InvalidScanParameters{Reason: "immediate predicate requires a value"}
		}
		target := immediate.Bytes
		switch p {
		case Equal:
			return func(current, _ []byte) bool { return bytesEqual(current[:size], target) }, nil
		case NotEqual:
			return func(current, _ []byte) bool { return !bytesEqual(current[:size], target) }, nil
		case GreaterThan:
			return func(current, _ []byte) bool { return bytes.Compare(current[:size], target) > 0 }, nil
		case GreaterThanOrEqual:
			return func(current, _ []byte) bool { return bytes.Compare(current[:size], target) >= 0 }, nil
		case LessThan:
			return func(current, _ []byte) bool { return bytes.Compare(current[:size], target) < 0 }, nil
		case LessThanOrEqual:
			return func(current, _ []byte) bool { return bytes.Compare(current[:size], target) <= 0 }, nil
		}
	case p.IsRelative():
		switch p {
		case Changed:
			return func(current, previous []byte) bool { return !bytesEqual(current[:size], previous[:size]) }, nil
		case Unchanged:
			return func(current, previous []byte) bool { return bytesEqual(current[:size], previous[:size]) }, nil
		case Increased:
			return func(current, previous []byte) bool { return bytes.Compare(current[:size], previous[:size]) > 0 }, nil
		case Decreased:
			return func(current, previous []byte) bool { return bytes.Compare(current[:size], previous[:size]) < 0 }, nil
		}
	}
	return nil, &errs.UnsupportedPredicate{TypeID: "string_utf8", Predicate: p.String(), Path: "scalar"}
}

func (t stringUTF8Type) VectorComparer(meta DataTypeMetaData, p ScanCompareType, width int, immediate, delta *DataValue, tol FloatingPointTolerance) (VectorFn, error) {
	if meta.Length <= 0 {
		return nil, &errs.UnsupportedPredicate{TypeID: "string_utf8", Predicate: p.String(), Path: "vector"}
	}
	scalar, err := t.ScalarComparer(meta, p, immediate, delta, tol)
	if err != nil {
		return nil, err
	}
	return emulatedVectorFromScalar(scalar, int64(meta.Length)), nil
}
