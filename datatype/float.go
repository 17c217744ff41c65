package datatype

import (
	"math"
	"strconv"

	"github.com/ptscan/ptscan/errs"
)

// floatType implements f32/f32be/f64/f64be. Float equality (both the
// Equal predicate and the delta predicates' target comparisons) uses
// FloatingPointTolerance; ordering (LessThan/GreaterThan) ignores it.
type floatType struct {
	id     string
	size   int64 // 4 or 8
	endian Endian
}

func (t *floatType) ID() string               { return t.id }
func (t *floatType) IsSigned() bool           { return true }
func (t *floatType) IsFloatingPoint() bool    { return true }
func (t *floatType) Endian() Endian           { return t.endian }
func (t *floatType) UnitSize(DataTypeMetaData) int64 { return t.size }

func (t *floatType) DefaultValue(DataTypeMetaData) DataValue {
	return DataValue{Bytes: make([]byte, t.size), Type: DataTypeRef{ID: t.id}}
}

func (t *floatType) valueOf(raw []byte) float64 {
	order := t.endian.ByteOrder()
	if t.size == 4 {
		return float64(math.Float32frombits(order.Uint32(raw)))
	}
	return math.Float64frombits(order.Uint64(raw))
}

func (t *floatType) encode(v float64) []byte {
	order := t.endian.ByteOrder()
	buf := make([]byte, t.size)
	if t.size == 4 {
		order.PutUint32(buf, math.Float32bits(float32(v)))
	} else {
		order.PutUint64(buf, math.Float64bits(v))
	}
	return buf
}

func (t *floatType) Validate(meta DataTypeMetaData, v AnonymousValue) error {
	_, err := t.Deanonymize(meta, v)
	return err
}

func (t *floatType) Deanonymize(meta DataTypeMetaData, v AnonymousValue) (DataValue, error) {
	if v.Kind == Decimal {
		bitSize := 64
		if t.size == 4 {
			bitSize = 32
		}
		f, err := strconv.ParseFloat(v.Text, bitSize)
		if err != nil {
			return DataValue{}, &errs.ParseError{Text: v.Text, TypeID: t.id, Reason: err.Error()}
		}
		return DataValue{Bytes: t.encode(f), Type: DataTypeRef{ID: t.id}}, nil
	}
	return deanonymizePrimitive(t.id, t.endian, t.size, v)
}

func (t *floatType) DisplayValues(meta DataTypeMetaData, data []byte) (DisplayValues, error) {
	if len(data) == 0 || int64(len(data))%t.size != 0 {
		return DisplayValues{}, &errs.ParseError{TypeID: t.id, Reason: "data length is not a multiple of the unit size"}
	}
	n := int64(len(data)) / t.size
	bitSize := 64
	if t.size == 4 {
		bitSize = 32
	}
	if n == 1 {
		return renderFloatDisplay(bitSize, t.valueOf(data)), nil
	}
	elems := make([]DisplayValues, n)
	for i := int64(0); i < n; i++ {
		elems[i] = renderFloatDisplay(bitSize, t.valueOf(data[i*t.size:(i+1)*t.size]))
	}
	return joinDisplayValues(elems), nil
}

func (t *floatType) ScalarComparer(meta DataTypeMetaData, p ScanCompareType, immediate, delta *DataValue, tol FloatingPointTolerance) (ScalarFn, error) {
	if tol == 0 {
		tol = DefaultFloatTolerance
	}
	size := t.size
	switch {
	case p.IsImmediate():
		if immediate == nil {
			return nil, &errs.InvalidScanParameters{Reason: "immediate predicate requires a value"}
		}
		target := t.valueOf(immediate.Bytes)
		return func(current, _ []byte) bool {
			cv := t.valueOf(current[:size])
			switch p {
			case Equal:
				return tol.ApproxEqual(cv, target)
			case NotEqual:
				return !tol.ApproxEqual(cv, target)
			case GreaterThan:
				return cv > target
			case GreaterThanOrEqual:
				return cv >= target
			case LessThan:
				return cv < target
			case LessThanOrEqual:
				return cv <= target
			}
			return false
		}, nil
	case p.IsRelative():
		return func(current, previous []byte) bool {
			cv := t.valueOf(current[:size])
			pv := t.valueOf(previous[:size])
			switch p {
			case Changed:
				return !tol.ApproxEqual(cv, pv)
			case Unchanged:
				return tol.ApproxEqual(cv, pv)
			case Increased:
				return cv > pv
			case Decreased:
				return cv < pv
			}
			return false
		}, nil
	case p.IsDelta():
		if delta == nil {
			return nil, &errs.InvalidScanParameters{Reason: "delta predicate requires a value"}
		}
		x := t.valueOf(delta.Bytes)
		return func(current, previous []byte) bool {
			cv := t.valueOf(current[:size])
			pv := t.valueOf(previous[:size])
			var expected float64
			switch p {
			case IncreasedByX:
				expected = pv + x
			case DecreasedByX:
				expected = pv - x
			case MultipliedByX:
				expected = pv * x
			case DividedByX:
				if x == 0 {
					return false
				}
				expected = pv / x
			case ModuloByX:
				if x == 0 {
					return false
				}
				expected = math.Mod(pv, x)
			default:
				// ShiftLeftByX/ShiftRightByX/LogicalAndByX/LogicalOrByX/
				// LogicalXorByX are bitwise and have no defined meaning
				// for a floating point type.
				return false
			}
			return tol.ApproxEqual(cv, expected)
		}, nil
	}
	return nil, &errs.UnsupportedPredicate{TypeID: t.id, Predicate: p.String(), Path: "scalar"}
}

func (t *floatType) VectorComparer(meta DataTypeMetaData, p ScanCompareType, width int, immediate, delta *DataValue, tol FloatingPointTolerance) (VectorFn, error) {
	scalar, err := t.ScalarComparer(meta, p, immediate, delta, tol)
	if err != nil {
		return nil, err
	}
	return emulatedVectorFromScalar(scalar, t.size), nil
}
