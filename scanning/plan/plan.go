// Package plan implements the execution planner: given one filter, its
// alignment, and the user's predicate, it decides which concrete scanner
// kind should run and at what vector width, pre-decoding the immediate
// value once so no scanner ever re-parses it.
package plan

import (
	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/snapshot"
)

// ScannerKind names one of the concrete scanner implementations the
// dispatcher can run.
type ScannerKind uint8

const (
	ScalarSingleElement ScannerKind = iota
	ScalarIterative
	VectorAligned
	VectorSparse
	VectorOverlapping
	ByteArrayBoyerMoore
)

func (k ScannerKind) String() string {
	switch k {
	case ScalarSingleElement:
		return "scalar-single-element"
	case ScalarIterative:
		return "scalar-iterative"
	case VectorAligned:
		return "vector-aligned"
	case VectorSparse:
		return "vector-sparse"
	case VectorOverlapping:
		return "vector-overlapping"
	case ByteArrayBoyerMoore:
		return "byte-array-boyer-moore"
	default:
		return "unknown"
	}
}

// VectorWidths are the three supported vector byte widths, largest first.
var VectorWidths = [3]int{64, 32, 16}

// Params is the planner's decision for one filter: which scanner to run,
// at what vector width (0 for scalar/byte-array paths), plus the already
// -decoded immediate/delta values and the predicate's periodicity when an
// overlapping scan is chosen.
type Params struct {
	Kind        ScannerKind
	VectorWidth int
	Alignment   snapshot.Alignment
	UnitSize    int64
	Predicate   datatype.ScanCompareType
	Tolerance   datatype.FloatingPointTolerance
	Immediate   *datatype.DataValue
	Delta       *datatype.DataValue
	// Periodicity is the shortest repeating prefix length of Immediate's
	// bytes, meaningful only for VectorOverlapping. It is len(Immediate)
	// (i.e. UnitSize) when no shorter repeat exists.
	Periodicity int
}

// Plan computes the scan parameters for one filter. maxVectorWidth caps
// the vector width the caller's CPU/ISA can actually execute (see
// scanning.Dispatcher, which derives it from golang.org/x/sys/cpu feature
// bits); pass 0 to force scalar execution everywhere.
func Plan(filter snapshot.Filter, alignment snapshot.Alignment, dt datatype.DataType, meta datatype.DataTypeMetaData, predicate datatype.ScanCompareType, immediate, delta *datatype.DataValue, tol datatype.FloatingPointTolerance, maxVectorWidth int) Params {
	unitSize := dt.UnitSize(meta)

	if dt.ID() == "byte_array" {
		return Params{
			Kind:      ByteArrayBoyerMoore,
			Alignment: alignment,
			UnitSize:  unitSize,
			Predicate: predicate,
			Tolerance: tol,
			Immediate: immediate,
			Delta:     delta,
		}
	}

	width := chooseVectorWidth(filter.Size, maxVectorWidth)

	base := Params{
		Alignment: alignment,
		UnitSize:  unitSize,
		Predicate: predicate,
		Tolerance: tol,
		Immediate: immediate,
		Delta:     delta,
	}

	if width == 0 {
		base.Kind = ScalarIterative
		if filter.Size == uint64(unitSize) {
			base.Kind = ScalarSingleElement
		}
		return base
	}

	base.VectorWidth = width
	a := int64(alignment)
	switch {
	case a == unitSize && isPow2UpTo8(unitSize):
		base.Kind = VectorAligned
	case a < unitSize:
		base.Kind = VectorOverlapping
		if immediate != nil {
			base.Periodicity = Periodicity(immediate.Bytes)
		} else {
			base.Periodicity = int(unitSize)
		}
	default: // a > unitSize
		base.Kind = VectorSparse
	}
	return base
}

func isPow2UpTo8(n int64) bool {
	switch n {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// chooseVectorWidth returns the largest width in VectorWidths that is no
// more than maxVectorWidth and for which at least one full vector fits in
// filterSize bytes, or 0 if none does (the filter is too small to
// vectorize at all).
func chooseVectorWidth(filterSize uint64, maxVectorWidth int) int {
	for _, w := range VectorWidths {
		if w <= maxVectorWidth && filterSize >= uint64(w) {
			return w
		}
	}
	return 0
}

// Periodicity returns the shortest p in [1, len(immediate)] such that
// immediate[i] == immediate[i % p] for every i < len(immediate). It
// returns len(immediate) when no shorter repeat exists (including for an
// empty or one-byte pattern).
func Periodicity(immediate []byte) int {
	n := len(immediate)
	if n <= 1 {
		return n
	}
	for p := 1; p < n; p++ {
		if isPeriod(immediate, p) {
			return p
		}
	}
	return n
}

func isPeriod(b []byte, p int) bool {
	for i := range b {
		if b[i] != b[i%p] {
			return false
		}
	}
	return true
}
