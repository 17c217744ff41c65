package datatype

import (
	"math"

	"github.com/ptscan/ptscan/errs"
)

// ScanCompareType is one of three disjoint predicate families: immediate
// comparisons against a user value, relative comparisons against the
// previous scan, and delta comparisons that combine the previous value
// with a user value before comparing to the current one.
type ScanCompareType uint8

const (
	// Immediate family: current vs. a user-supplied value.
	Equal ScanCompareType = iota
	NotEqual
	GreaterThan
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual

	// Relative family: current vs. previous.
	Changed
	Unchanged
	Increased
	Decreased

	// Delta family: current vs. f(previous, X).
	IncreasedByX
	DecreasedByX
	MultipliedByX
	DividedByX
	ModuloByX
	ShiftLeftByX
	ShiftRightByX
	LogicalAndByX
	LogicalOrByX
	LogicalXorByX
)

var predicateNames = map[ScanCompareType]string{
	Equal:              "Equal",
	NotEqual:           "NotEqual",
	GreaterThan:        "GreaterThan",
	GreaterThanOrEqual: "GreaterThanOrEqual",
	LessThan:           "LessThan",
	LessThanOrEqual:    "LessThanOrEqual",
	Changed:            "Changed",
	Unchanged:          "Unchanged",
	Increased:          "Increased",
	Decreased:          "Decreased",
	IncreasedByX:       "IncreasedByX",
	DecreasedByX:       "DecreasedByX",
	MultipliedByX:      "MultipliedByX",
	DividedByX:         "DividedByX",
	ModuloByX:          "ModuloByX",
	ShiftLeftByX:       "ShiftLeftByX",
	ShiftRightByX:      "ShiftRightByX",
	LogicalAndByX:      "LogicalAndByX",
	LogicalOrByX:       "LogicalOrByX",
	LogicalXorByX:      "LogicalXorByX",
}

func (p ScanCompareType) String() string {
	if s, ok := predicateNames[p]; ok {
		return s
	}
	return "Unknown"
}

var predicatesByName = func() map[string]ScanCompareType {
	m := make(map[string]ScanCompareType, len(predicateNames))
	for p, name := range predicateNames {
		m[name] = p
	}
	return m
}()

// ParseScanCompareType looks up a predicate by its String() name, the
// form a CLI or config file would spell it in.
func ParseScanCompareType(name string) (ScanCompareType, error) {
	if p, ok := predicatesByName[name]; ok {
		return p, nil
	}
	return 0, &errs.ParseError{Text: name, TypeID: "ScanCompareType", Reason: "unrecognized predicate name"}
}

// IsImmediate reports whether p compares current bytes to a user value.
func (p ScanCompareType) IsImmediate() bool {
	return p <= LessThanOrEqual
}

// IsRelative reports whether p compares current bytes to previous bytes
// with no user value involved.
func (p ScanCompareType) IsRelative() bool {
	return p >= Changed && p <= Decreased
}

// IsDelta reports whether p combines previous bytes with a user value
// before comparing to current bytes.
func (p ScanCompareType) IsDelta() bool {
	return p >= IncreasedByX
}

// NeedsValue reports whether p requires an accompanying AnonymousValue
// (every immediate and delta predicate does; relative predicates do not).
func (p ScanCompareType) NeedsValue() bool {
	return p.IsImmediate() || p.IsDelta()
}

// ArraySupported reports whether byte_array defines p: only a subset of
// predicates are meaningful applied element-wise across a whole array.
func (p ScanCompareType) ArraySupported() bool {
	switch p {
	case Equal, NotEqual, Changed, Unchanged, Increased, Decreased, IncreasedByX, DecreasedByX:
		return true
	default:
		return false
	}
}

// FloatingPointTolerance is the absolute epsilon used for float equality
// and delta-target comparisons. Ordering comparisons ignore it.
type FloatingPointTolerance float64

// DefaultFloatTolerance is used when the caller supplies none.
const DefaultFloatTolerance FloatingPointTolerance = 1e-6

// ApproxEqual reports whether |a-b| <= t.
func (t FloatingPointTolerance) ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) <= float64(t)
}
