package datatype

import "github.com/ptscan/ptscan/errs"

// boolType stores a single byte, zero/nonzero, the same layout the target
// process uses for a Go/C bool.
type boolType struct{}

func (boolType) ID() string               { return "bool" }
func (boolType) IsSigned() bool           { return false }
func (boolType) IsFloatingPoint() bool    { return false }
func (boolType) Endian() Endian           { return LittleEndian }
func (boolType) UnitSize(DataTypeMetaData) int64 { return 1 }

func (boolType) DefaultValue(DataTypeMetaData) DataValue {
	return DataValue{Bytes: []byte{0}, Type: DataTypeRef{ID: "bool"}}
}

func (t boolType) Validate(meta DataTypeMetaData, v AnonymousValue) error {
	_, err := t.Deanonymize(meta, v)
	return err
}

func (boolType) Deanonymize(meta DataTypeMetaData, v AnonymousValue) (DataValue, error) {
	b, err := deanonymizeBool(v)
	if err != nil {
		return DataValue{}, err
	}
	by := byte(0)
	if b {
		by = 1
	}
	return DataValue{Bytes: []byte{by}, Type: DataTypeRef{ID: "bool"}}, nil
}

func (boolType) DisplayValues(meta DataTypeMetaData, data []byte) (DisplayValues, error) {
	if len(data) == 0 {
		return DisplayValues{}, &errs.ParseError{TypeID: "bool", Reason: "empty value"}
	}
	elems := make([]DisplayValues, len(data))
	for i, b := range data {
		decimal := "false"
		if b != 0 {
			decimal = "true"
		}
		elems[i] = DisplayValues{
			Binary:  rawBinaryString([]byte{b}),
			Decimal: decimal,
			Hex:     rawHexString([]byte{b}),
		}
	}
	if len(elems) == 1 {
		return elems[0], nil
	}
	return joinDisplayValues(elems), nil
}

func (boolType) ScalarComparer(meta DataTypeMetaData, p ScanCompareType, immediate, delta *DataValue, tol FloatingPointTolerance) (ScalarFn, error) {
	truthy := func(b byte) bool { return b != 0 }
	switch {
	case p.IsImmediate():
		if immediate == nil || len(immediate.Bytes) == 0 {
			return nil, &errs.InvalidScanParameters{Reason: "immediate predicate requires a value"}
		}
		target := truthy(immediate.Bytes[0])
		switch p {
		case Equal:
			return func(current, _ []byte) bool { return truthy(current[0]) == target }, nil
		case NotEqual:
			return func(current, _ []byte) bool { return truthy(current[0]) != target }, nil
		}
		return nil, &errs.UnsupportedPredicate{TypeID: "bool", Predicate: p.String(), Path: "scalar"}
	case p.IsRelative():
		switch p {
		case Changed:
			return func(current, previous []byte) bool { return truthy(current[0]) != truthy(previous[0]) }, nil
		case Unchanged:
			return func(current, previous []byte) bool { return truthy(current[0]) == truthy(previous[0]) }, nil
		}
		return nil, &errs.UnsupportedPredicate{TypeID: "bool", Predicate: p.String(), Path: "scalar"}
	}
	return nil, &errs.UnsupportedPredicate{TypeID: "bool", Predicate: p.String(), Path: "scalar"}
}

func (t boolType) VectorComparer(meta DataTypeMetaData, p ScanCompareType, width int, immediate, delta *DataValue, tol FloatingPointTolerance) (VectorFn, error) {
	scalar, err := t.ScalarComparer(meta, p, immediate, delta, tol)
	if err != nil {
		return nil, err
	}
	return emulatedVectorFromScalar(scalar, 1), nil
}
