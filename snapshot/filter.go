package snapshot

import "github.com/ptscan/ptscan/datatype"

// Alignment is the stride at which candidate addresses are considered.
type Alignment uint8

const (
	Align1 Alignment = 1
	Align2 Alignment = 2
	Align4 Alignment = 4
	Align8 Alignment = 8
)

// Valid reports whether a is one of the four alignments a scan may use.
func (a Alignment) Valid() bool {
	switch a {
	case Align1, Align2, Align4, Align8:
		return true
	default:
		return false
	}
}

// Filter is a surviving candidate sub-range inside a SnapshotRegion:
// region.Base <= filter.Base and filter.Base+filter.Size <= region.End().
type Filter struct {
	Base uint64
	Size uint64
}

// End returns Base+Size.
func (f Filter) End() uint64 { return f.Base + f.Size }

// ContainedIn reports whether f lies fully inside the half-open range
// [base, base+size).
func (f Filter) ContainedIn(base, size uint64) bool {
	return f.Base >= base && f.End() <= base+size
}

// FilterCollection is an ordered list of filter groups sharing one data
// type and alignment. The grouping into independent lists lets a large
// region be chunked and scanned as independent pieces; filter order
// within and across groups is stable by base address.
type FilterCollection struct {
	Groups    [][]Filter
	Type      datatype.DataTypeRef
	Alignment Alignment
}

// NewFilterCollection wraps one flat slice of filters as a single-group
// collection.
func NewFilterCollection(filters []Filter, t datatype.DataTypeRef, align Alignment) *FilterCollection {
	return &FilterCollection{Groups: [][]Filter{filters}, Type: t, Alignment: align}
}

// All flattens every group into one ordered slice.
func (c *FilterCollection) All() []Filter {
	n := 0
	for _, g := range c.Groups {
		n += len(g)
	}
	out := make([]Filter, 0, n)
	for _, g := range c.Groups {
		out = append(out, g...)
	}
	return out
}

// Count returns the total number of filters across every group.
func (c *FilterCollection) Count() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g)
	}
	return n
}

// TotalSize returns the sum of every filter's size across every group.
func (c *FilterCollection) TotalSize() uint64 {
	var n uint64
	for _, g := range c.Groups {
		for _, f := range g {
			n += f.Size
		}
	}
	return n
}

// Bounds returns the lowest base address and highest end address among
// every filter in the collection. ok is false for an empty collection.
func (c *FilterCollection) Bounds() (lowest, highest uint64, ok bool) {
	for _, g := range c.Groups {
		for _, f := range g {
			if !ok || f.Base < lowest {
				lowest = f.Base
			}
			if !ok || f.End() > highest {
				highest = f.End()
			}
			ok = true
		}
	}
	return
}
