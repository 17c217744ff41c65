// Package snapshot implements the point-in-time capture of a target
// process's address space: SnapshotRegion's current/previous byte buffers
// and page-boundary bookkeeping, SnapshotRegionFilter and
// SnapshotRegionFilterCollection's candidate-address bookkeeping, and the
// Snapshot aggregate that owns the whole thing across successive scans.
//
// A single owner holds a flat list of contiguous ranges, each range
// owning its own backing bytes.
package snapshot

import (
	"sort"

	"github.com/ptscan/ptscan/memapi"
)

// SnapshotRegion groups one contiguous range of target-process memory
// with its current and previous byte images and the filter collections
// narrowing it across successive scans.
//
// Invariants:
//   - len(CurrentValues) == len(PreviousValues), and is 0 or Region.Size.
//   - every page boundary lies strictly inside (Region.Base, Region.End()).
//   - scan results never name addresses outside [Region.Base, Region.End()).
//   - a tombstoned boundary's bytes are stale but its position persists so
//     future reads keep splitting around it.
type SnapshotRegion struct {
	Region memapi.NormalizedRegion

	CurrentValues  []byte
	PreviousValues []byte

	// PageBoundaries holds the offsets (relative to Region.Base, sorted
	// ascending) at which the reader must split its read into separate
	// OS calls, because the underlying mapping spans more than one OS
	// page and pages fail independently.
	PageBoundaries []uint64

	// PageBoundaryTombstones records which boundaries' last read failed.
	// Their bytes are not refreshed but their split point is kept.
	PageBoundaryTombstones map[uint64]bool

	ScanResults *ScanResults
}

// NewSnapshotRegion creates a region with no buffered bytes yet and no
// scan results. pageBoundaries are absolute addresses; they are stored
// relative to Region.Base and sorted.
func NewSnapshotRegion(region memapi.NormalizedRegion, pageBoundaries []uint64) *SnapshotRegion {
	rel := make([]uint64, 0, len(pageBoundaries))
	for _, a := range pageBoundaries {
		if a > region.Base && a < region.End() {
			rel = append(rel, a-region.Base)
		}
	}
	sort.Slice(rel, func(i, j int) bool { return rel[i] < rel[j] })
	return &SnapshotRegion{
		Region:                 region,
		PageBoundaries:         rel,
		PageBoundaryTombstones: make(map[uint64]bool),
		ScanResults:            NewScanResults(),
	}
}

// IsGarbage reports whether the region's filters have shrunk it to
// nothing and it should be dropped from the owning Snapshot.
func (r *SnapshotRegion) IsGarbage() bool {
	return r.Region.Size == 0
}

// MarkForGC zeroes the region's size, the sentinel used to mark a region
// as ready to be garbage collected.
func (r *SnapshotRegion) MarkForGC() {
	r.Region.Size = 0
	r.CurrentValues = nil
	r.PreviousValues = nil
}

// Resize shrinks the region to [newBase, newBase+newSize), draining
// CurrentValues/PreviousValues in place from both ends and dropping any
// page boundary that falls outside the new bounds. newBase/newSize must
// describe a sub-range of the current region.
func (r *SnapshotRegion) Resize(newBase, newSize uint64) {
	if newSize == 0 {
		r.MarkForGC()
		return
	}
	lowTrim := newBase - r.Region.Base
	highTrim := r.Region.End() - (newBase + newSize)

	if len(r.CurrentValues) == int(r.Region.Size) {
		r.CurrentValues = r.CurrentValues[lowTrim : uint64(len(r.CurrentValues))-highTrim]
	}
	if len(r.PreviousValues) == int(r.Region.Size) {
		r.PreviousValues = r.PreviousValues[lowTrim : uint64(len(r.PreviousValues))-highTrim]
	}

	kept := r.PageBoundaries[:0]
	tombstones := make(map[uint64]bool, len(r.PageBoundaryTombstones))
	for _, off := range r.PageBoundaries {
		if off > lowTrim && off < r.Region.Size-highTrim {
			newOff := off - lowTrim
			kept = append(kept, newOff)
			if r.PageBoundaryTombstones[off] {
				tombstones[newOff] = true
			}
		}
	}
	r.PageBoundaries = kept
	r.PageBoundaryTombstones = tombstones

	r.Region = memapi.NormalizedRegion{Base: newBase, Size: newSize}
}

// AbsolutePageBoundaries returns the region's page-split points as
// absolute addresses.
func (r *SnapshotRegion) AbsolutePageBoundaries() []uint64 {
	out := make([]uint64, len(r.PageBoundaries))
	for i, off := range r.PageBoundaries {
		out[i] = r.Region.Base + off
	}
	return out
}

// TombstonePage records that the page-bounded sub-read starting at the
// given absolute address failed. Its bytes stay stale but the region
// keeps splitting future reads around it.
func (r *SnapshotRegion) TombstonePage(address uint64) {
	if address < r.Region.Base {
		return
	}
	r.PageBoundaryTombstones[address-r.Region.Base] = true
}
