package datatype

import "github.com/ptscan/ptscan/errs"

// byteArrayType stores a fixed-length raw byte pattern. Only a subset of
// predicates is defined for it: ordering predicates and most delta
// predicates have no element-wise meaning for an opaque byte pattern, so
// Equal/NotEqual/Changed/Unchanged/Increased/Decreased/IncreasedByX/
// DecreasedByX are universally quantified over the array's elements,
// everything else is unsupported.
// Vector comparers are never available for byte_array -- the planner
// (scanning/plan) routes it to the Boyer-Moore-Horspool scanner instead.
type byteArrayType struct{}

func (byteArrayType) ID() string     { return "byte_array" }
func (byteArrayType) IsSigned() bool { return false }
func (byteArrayType) IsFloatingPoint() bool { return false }
func (byteArrayType) Endian() Endian { return LittleEndian }

func (byteArrayType) UnitSize(meta DataTypeMetaData) int64 { return int64(meta.Length) }

func (byteArrayType) DefaultValue(meta DataTypeMetaData) DataValue {
	return DataValue{Bytes: make([]byte, meta.Length), Type: DataTypeRef{ID: "byte_array", Metadata: meta}}
}

func (t byteArrayType) Validate(meta DataTypeMetaData, v AnonymousValue) error {
	_, err := t.Deanonymize(meta, v)
	return err
}

func (byteArrayType) Deanonymize(meta DataTypeMetaData, v AnonymousValue) (DataValue, error) {
	var raw []byte
	var err error
	switch v.Kind {
	case Hex:
		raw, err = decodeHexDigits(v.Text)
	case Binary:
		raw, err = decodeBinaryDigits(v.Text)
	default:
		return DataValue{}, &errs.ParseError{Text: v.Text, TypeID: "byte_array", Reason: "byte arrays only accept hex or binary values"}
	}
	if err != nil {
		return DataValue{}, err
	}
	length := meta.Length
	if length <= 0 {
		length = len(raw)
	}
	if len(raw) != length {
		return DataValue{}, &errs.ParseError{Text: v.Text, TypeID: "byte_array", Reason: "value length does not match the configured pattern length"}
	}
	buf := make([]byte, length)
	copy(buf, raw)
	return DataValue{Bytes: buf, Type: DataTypeRef{ID: "byte_array", Metadata: DataTypeMetaData{Length: length}}}, nil
}

func (byteArrayType) DisplayValues(meta DataTypeMetaData, data []byte) (DisplayValues, error) {
	if len(data) == 0 {
		return DisplayValues{}, &errs.ParseError{TypeID: "byte_array", Reason: "empty value"}
	}
	return DisplayValues{
		Binary:  rawBinaryString(data),
		Decimal: "", // a byte pattern has no meaningful decimal rendering
		Hex:     rawHexString(data),
	}, nil
}

func (byteArrayType) ScalarComparer(meta DataTypeMetaData, p ScanCompareType, immediate, delta *DataValue, tol FloatingPointTolerance) (ScalarFn, error) {
	size := meta.Length
	if !p.ArraySupported() {
		return nil, &errs.UnsupportedPredicate{TypeID: "byte_array", Predicate: p.String(), Path: "scalar"}
	}
	if p.IsImmediate() && immediate == nil {
		return nil, &errs.InvalidScanParameters{Reason: "immediate predicate requires a value"}
	}
	switch p {
	case Equal:
		target := immediate.Bytes
		return func(current, _ []byte) bool { return bytesEqual(current[:size], target) }, nil
	case NotEqual:
		target := immediate.Bytes
		return func(current, _ []byte) bool { return !bytesEqual(current[:size], target) }, nil
	case Changed:
		return func(current, previous []byte) bool { return !bytesEqual(current[:size], previous[:size]) }, nil
	case Unchanged:
		return func(current, previous []byte) bool { return bytesEqual(current[:size], previous[:size]) }, nil
	case Increased:
		return func(current, previous []byte) bool {
			for i := 0; i < size; i++ {
				if current[i] <= previous[i] {
					return false
				}
			}
			return true
		}, nil
	case Decreased:
		return func(current, previous []byte) bool {
			for i := 0; i < size; i++ {
				if current[i] >= previous[i] {
					return false
				}
			}
			return true
		}, nil
	case IncreasedByX, DecreasedByX:
		if delta == nil {
			return nil, &errs.InvalidScanParameters{Reason: "delta predicate requires a value"}
		}
		x := delta.Bytes
		sign := byte(1)
		if p == DecreasedByX {
			sign = ^byte(0) // 0xFF, i.e. -1 mod 256
		}
		return func(current, previous []byte) bool {
			for i := 0; i < size; i++ {
				if current[i] != previous[i]+sign*x[i] {
					return false
				}
			}
			return true
		}, nil
	}
	return nil, &errs.UnsupportedPredicate{TypeID: "byte_array", Predicate: p.String(), Path: "scalar"}
}

func (byteArrayType) VectorComparer(meta DataTypeMetaData, p ScanCompareType, width int, immediate, delta *DataValue, tol FloatingPointTolerance) (VectorFn, error) {
	return nil, &errs.UnsupportedPredicate{TypeID: "byte_array", Predicate: p.String(), Path: "vector"}
}
