package datatype

import (
	"strconv"

	"github.com/ptscan/ptscan/errs"
)

// integerType is the built-in implementation backing i8/u8/i16/i16be/...
// /i64/u64be. One struct value, parameterized by size/signedness/endian,
// covers every integer id in the built-in catalogue.
type integerType struct {
	id     string
	size   int64
	signed bool
	endian Endian
}

func (t *integerType) ID() string               { return t.id }
func (t *integerType) IsSigned() bool           { return t.signed }
func (t *integerType) IsFloatingPoint() bool    { return false }
func (t *integerType) Endian() Endian           { return t.endian }
func (t *integerType) UnitSize(DataTypeMetaData) int64 { return t.size }

func (t *integerType) DefaultValue(DataTypeMetaData) DataValue {
	return DataValue{Bytes: make([]byte, t.size), Type: DataTypeRef{ID: t.id}}
}

// numericValue is an integer read out of raw bytes, carrying both
// interpretations so callers can pick the one matching t.signed.
type numericValue struct {
	iv int64
	uv uint64
}

func (t *integerType) valueOf(raw []byte) numericValue {
	order := t.endian.ByteOrder()
	var uv uint64
	switch t.size {
	case 1:
		uv = uint64(raw[0])
	case 2:
		uv = uint64(order.Uint16(raw))
	case 4:
		uv = uint64(order.Uint32(raw))
	case 8:
		uv = order.Uint64(raw)
	}
	return numericValue{iv: signExtend(uv, t.size), uv: uv}
}

func mask(size int64) uint64 {
	if size >= 8 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(8*size)) - 1
}

func signExtend(v uint64, size int64) int64 {
	if size >= 8 {
		return int64(v)
	}
	shift := uint(64 - 8*size)
	return int64(v<<shift) >> shift
}

func (t *integerType) Validate(meta DataTypeMetaData, v AnonymousValue) error {
	_, err := t.Deanonymize(meta, v)
	return err
}

func (t *integerType) Deanonymize(meta DataTypeMetaData, v AnonymousValue) (DataValue, error) {
	if v.Kind == Decimal {
		bitSize := int(t.size * 8)
		order := t.endian.ByteOrder()
		buf := make([]byte, t.size)
		if t.signed {
			n, err := strconv.ParseInt(v.Text, 10, bitSize)
			if err != nil {
				return DataValue{}, &errs.ParseError{Text: v.Text, TypeID: t.id, Reason: err.Error()}
			}
			putIntN(order, buf, uint64(n), t.size)
		} else {
			n, err := strconv.ParseUint(v.Text, 10, bitSize)
			if err != nil {
				return DataValue{}, &errs.ParseError{Text: v.Text, TypeID: t.id, Reason: err.Error()}
			}
			putIntN(order, buf, n, t.size)
		}
		return DataValue{Bytes: buf, Type: DataTypeRef{ID: t.id}}, nil
	}
	return deanonymizePrimitive(t.id, t.endian, t.size, v)
}

func putIntN(order interface {
	PutUint16([]byte, uint16)
	PutUint32([]byte, uint32)
	PutUint64([]byte, uint64)
}, buf []byte, v uint64, size int64) {
	switch size {
	case 1:
		buf[0] = byte(v)
	case 2:
		order.PutUint16(buf, uint16(v))
	case 4:
		order.PutUint32(buf, uint32(v))
	case 8:
		order.PutUint64(buf, v)
	}
}

func (t *integerType) DisplayValues(meta DataTypeMetaData, data []byte) (DisplayValues, error) {
	if len(data) == 0 || int64(len(data))%t.size != 0 {
		return DisplayValues{}, &errs.ParseError{TypeID: t.id, Reason: "data length is not a multiple of the unit size"}
	}
	n := int64(len(data)) / t.size
	if n == 1 {
		nv := t.valueOf(data)
		return renderIntegerDisplay(t.signed, nv.iv, nv.uv, data), nil
	}
	elems := make([]DisplayValues, n)
	for i := int64(0); i < n; i++ {
		raw := data[i*t.size : (i+1)*t.size]
		nv := t.valueOf(raw)
		elems[i] = renderIntegerDisplay(t.signed, nv.iv, nv.uv, raw)
	}
	return joinDisplayValues(elems), nil
}

// compareOrdered evaluates an immediate ordering/equality predicate.
func (t *integerType) compareOrdered(p ScanCompareType, cur, target []byte, curV, targetV numericValue) bool {
	switch p {
	case Equal:
		return bytesEqual(cur, target)
	case NotEqual:
		return !bytesEqual(cur, target)
	case GreaterThan:
		if t.signed {
			return curV.iv > targetV.iv
		}
		return curV.uv > targetV.uv
	case GreaterThanOrEqual:
		if t.signed {
			return curV.iv >= targetV.iv
		}
		return curV.uv >= targetV.uv
	case LessThan:
		if t.signed {
			return curV.iv < targetV.iv
		}
		return curV.uv < targetV.uv
	case LessThanOrEqual:
		if t.signed {
			return curV.iv <= targetV.iv
		}
		return curV.uv <= targetV.uv
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// deltaCompute applies one delta predicate's arithmetic to previous and
// the user's X value, both masked to the type's width, and reports the
// resulting width-masked bit pattern. ok is false only for an undefined
// division/modulo by zero, in which case the predicate never matches.
func (t *integerType) deltaCompute(p ScanCompareType, prevV, xV numericValue) (res uint64, ok bool) {
	m := mask(t.size)
	shiftMask := uint(t.size*8 - 1)
	switch p {
	case IncreasedByX:
		return (prevV.uv + xV.uv) & m, true
	case DecreasedByX:
		return (prevV.uv - xV.uv) & m, true
	case MultipliedByX:
		return (prevV.uv * xV.uv) & m, true
	case DividedByX:
		if t.signed {
			if xV.iv == 0 {
				return 0, false
			}
			return uint64(prevV.iv/xV.iv) & m, true
		}
		if xV.uv == 0 {
			return 0, false
		}
		return (prevV.uv / xV.uv) & m, true
	case ModuloByX:
		if t.signed {
			if xV.iv == 0 {
				return 0, false
			}
			return uint64(prevV.iv%xV.iv) & m, true
		}
		if xV.uv == 0 {
			return 0, false
		}
		return (prevV.uv % xV.uv) & m, true
	case ShiftLeftByX:
		return (prevV.uv << (uint(xV.uv) & shiftMask)) & m, true
	case ShiftRightByX:
		if t.signed {
			return uint64(prevV.iv>>(uint(xV.uv)&shiftMask)) & m, true
		}
		return (prevV.uv >> (uint(xV.uv) & shiftMask)) & m, true
	case LogicalAndByX:
		return prevV.uv & xV.uv & m, true
	case LogicalOrByX:
		return (prevV.uv | xV.uv) & m, true
	case LogicalXorByX:
		return (prevV.uv ^ xV.uv) & m, true
	}
	return 0, false
}

func (t *integerType) ScalarComparer(meta DataTypeMetaData, p ScanCompareType, immediate, delta *DataValue, tol FloatingPointTolerance) (ScalarFn, error) {
	size := t.size
	switch {
	case p.IsImmediate():
		if immediate == nil {
			return nil, &errs.InvalidScanParameters{Reason: "immediate predicate requires a value"}
		}
		targetV := t.valueOf(immediate.Bytes)
		target := immediate.Bytes
		return func(current, _ []byte) bool {
			cur := current[:size]
			return t.compareOrdered(p, cur, target, t.valueOf(cur), targetV)
		}, nil
	case p.IsRelative():
		return func(current, previous []byte) bool {
			cur := current[:size]
			prev := previous[:size]
			switch p {
			case Changed:
				return !bytesEqual(cur, prev)
			case Unchanged:
				return bytesEqual(cur, prev)
			case Increased:
				cv, pv := t.valueOf(cur), t.valueOf(prev)
				if t.signed {
					return cv.iv > pv.iv
				}
				return cv.uv > pv.uv
			case Decreased:
				cv, pv := t.valueOf(cur), t.valueOf(prev)
				if t.signed {
					return cv.iv < pv.iv
				}
				return cv.uv < pv.uv
			}
			return false
		}, nil
	case p.IsDelta():
		if delta == nil {
			return nil, &errs.InvalidScanParameters{Reason: "delta predicate requires a value"}
		}
		xV := t.valueOf(delta.Bytes)
		return func(current, previous []byte) bool {
			cur := current[:size]
			prev := previous[:size]
			res, ok := t.deltaCompute(p, t.valueOf(prev), xV)
			if !ok {
				return false
			}
			return t.valueOf(cur).uv == res
		}, nil
	}
	return nil, &errs.UnsupportedPredicate{TypeID: t.id, Predicate: p.String(), Path: "scalar"}
}

func (t *integerType) VectorComparer(meta DataTypeMetaData, p ScanCompareType, width int, immediate, delta *DataValue, tol FloatingPointTolerance) (VectorFn, error) {
	scalar, err := t.ScalarComparer(meta, p, immediate, delta, tol)
	if err != nil {
		return nil, err
	}
	return emulatedVectorFromScalar(scalar, t.size), nil
}

// emulatedVectorFromScalar builds a VectorFn by invoking a per-element
// scalar kernel on each unitSize-byte lane of the input and broadcasting
// its result across the lane's bytes: emulating an unavailable vector
// width by looping a smaller one. There is no portable Go SIMD intrinsic
// available without assembly, so every vector width is this loop, and it
// is correct by construction against the scalar kernel it wraps.
func emulatedVectorFromScalar(scalar ScalarFn, unitSize int64) VectorFn {
	return func(current, previous []byte) []byte {
		out := make([]byte, len(current))
		for i := int64(0); i+unitSize <= int64(len(current)); i += unitSize {
			var prevLane []byte
			if previous != nil {
				prevLane = previous[i : i+unitSize]
			}
			var v byte
			if scalar(current[i:i+unitSize], prevLane) {
				v = 0xFF
			}
			for j := int64(0); j < unitSize; j++ {
				out[i+j] = v
			}
		}
		return out
	}
}
