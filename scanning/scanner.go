// Package scanning implements the scan dispatcher: it drives the
// execution planner (scanning/plan) and the concrete scanner kernels
// against a Snapshot's regions, narrowing each filter's candidate
// addresses by comparing the region's current and previous byte images.
package scanning

import (
	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/scanning/plan"
	"github.com/ptscan/ptscan/scanning/rle"
	"github.com/ptscan/ptscan/snapshot"
)

// Scanner narrows one filter's candidate addresses against the current
// and previous byte slices of its owning region (already sliced to the
// filter's own range), returning the surviving sub-filters in ascending
// base-address order.
type Scanner interface {
	Scan(filter snapshot.Filter, current, previous []byte, dt datatype.DataType, meta datatype.DataTypeMetaData, p plan.Params) ([]snapshot.Filter, error)
}

// elementWiseScan is the one correct, portable narrowing algorithm most
// concrete scanners in this package reduce to: evaluate the scalar kernel
// on the unitSize-byte window starting at every multiple of alignment,
// and run-length encode the surviving offsets at alignment granularity.
// This is only correct when alignment >= unitSize, so each candidate
// address names a distinct, non-overlapping element; VectorOverlapping's
// alignment < unitSize case needs byte-coverage union instead (see
// coverageScan).
func elementWiseScan(filter snapshot.Filter, current, previous []byte, unitSize int64, alignment uint64, scalar datatype.ScalarFn) []snapshot.Filter {
	enc := rle.New(filter.Base)
	u := uint64(unitSize)
	n := uint64(len(current))

	var offset uint64
	for offset+u <= n {
		cur := current[offset : offset+u]
		var prev []byte
		if previous != nil && uint64(len(previous)) >= offset+u {
			prev = previous[offset : offset+u]
		}
		if scalar(cur, prev) {
			enc.EncodeRange(alignment)
		} else {
			enc.FinalizeCurrentEncode(alignment)
		}
		offset += alignment
	}
	enc.FinalizeCurrentEncode(0)
	return enc.TakeResultRegions()
}

// coverageScan marks every byte covered by a unitSize-wide matching
// window, unions overlapping windows by OR-ing their coverage, and
// run-length encodes the result. Unlike elementWiseScan, a match here
// contributes its full unitSize (not just one alignment slot) to the
// reported filter, so a genuine match isn't discarded just because it
// didn't chain into unitSize/alignment consecutive alignment-slot hits,
// and two overlapping matches merge into one filter spanning both.
func coverageScan(filter snapshot.Filter, covered []bool) []snapshot.Filter {
	enc := rle.New(filter.Base)
	for _, c := range covered {
		if c {
			enc.EncodeRange(1)
		} else {
			enc.FinalizeCurrentEncode(1)
		}
	}
	enc.FinalizeCurrentEncode(0)
	return enc.TakeResultRegions()
}

func buildScalar(dt datatype.DataType, meta datatype.DataTypeMetaData, p plan.Params) (datatype.ScalarFn, error) {
	return dt.ScalarComparer(meta, p.Predicate, p.Immediate, p.Delta, p.Tolerance)
}
