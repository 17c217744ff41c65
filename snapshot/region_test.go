package snapshot

import (
	"testing"

	"github.com/ptscan/ptscan/memapi"
)

func TestNewSnapshotRegionStoresRelativeSortedBoundaries(t *testing.T) {
	region := memapi.NormalizedRegion{Base: 0x1000, Size: 0x3000}
	r := NewSnapshotRegion(region, []uint64{0x3000, 0x2000, 0x1000, 0x4000})
	want := []uint64{0x1000, 0x2000}
	if len(r.PageBoundaries) != len(want) {
		t.Fatalf("got %v, want %v", r.PageBoundaries, want)
	}
	for i, v := range want {
		if r.PageBoundaries[i] != v {
			t.Errorf("boundary %d: got %#x, want %#x", i, r.PageBoundaries[i], v)
		}
	}
}

func TestSnapshotRegionMarkForGC(t *testing.T) {
	r := NewSnapshotRegion(memapi.NormalizedRegion{Base: 0x1000, Size: 0x10}, nil)
	r.CurrentValues = make([]byte, 0x10)
	r.MarkForGC()
	if !r.IsGarbage() {
		t.Error("region should be garbage after MarkForGC")
	}
	if r.CurrentValues != nil {
		t.Error("buffers should be released on GC")
	}
}

func TestSnapshotRegionResizeTrimsBuffersAndBoundaries(t *testing.T) {
	r := NewSnapshotRegion(memapi.NormalizedRegion{Base: 0x1000, Size: 0x30}, []uint64{0x1010, 0x1020})
	r.CurrentValues = make([]byte, 0x30)
	r.PreviousValues = make([]byte, 0x30)
	for i := range r.CurrentValues {
		r.CurrentValues[i] = byte(i)
	}

	r.Resize(0x1010, 0x10)

	if r.Region.Base != 0x1010 || r.Region.Size != 0x10 {
		t.Fatalf("got region %+v", r.Region)
	}
	if len(r.CurrentValues) != 0x10 {
		t.Fatalf("got buffer length %d, want 0x10", len(r.CurrentValues))
	}
	if r.CurrentValues[0] != 0x10 {
		t.Errorf("resized buffer should start at the trimmed offset, got %d", r.CurrentValues[0])
	}
	if len(r.PageBoundaries) != 0 {
		t.Errorf("both page boundaries fall outside the new range, got %v", r.PageBoundaries)
	}
}

func TestSnapshotRegionResizeRekeysSurvivingTombstones(t *testing.T) {
	// region Base 0x1000 Size 0x30, boundaries at absolute 0x1010 (rel
	// 0x10) and 0x1020 (rel 0x20). Tombstone both, then resize to
	// [0x1018, 0x10) so only the 0x1020 boundary (rel 0x20) survives,
	// re-keyed to rel 0x8 under the new base.
	r := NewSnapshotRegion(memapi.NormalizedRegion{Base: 0x1000, Size: 0x30}, []uint64{0x1010, 0x1020})
	r.CurrentValues = make([]byte, 0x30)
	r.PreviousValues = make([]byte, 0x30)
	r.TombstonePage(0x1010)
	r.TombstonePage(0x1020)

	r.Resize(0x1018, 0x10)

	if len(r.PageBoundaries) != 1 || r.PageBoundaries[0] != 0x8 {
		t.Fatalf("got boundaries %v, want [0x8]", r.PageBoundaries)
	}
	if !r.PageBoundaryTombstones[0x8] {
		t.Error("the surviving boundary's tombstone should persist under its new relative offset")
	}
	if len(r.PageBoundaryTombstones) != 1 {
		t.Errorf("the dropped boundary's tombstone should not linger, got %v", r.PageBoundaryTombstones)
	}
}

func TestSnapshotRegionResizeToZeroMarksGarbage(t *testing.T) {
	r := NewSnapshotRegion(memapi.NormalizedRegion{Base: 0x1000, Size: 0x10}, nil)
	r.Resize(0x1000, 0)
	if !r.IsGarbage() {
		t.Error("resizing to zero size should mark the region for GC")
	}
}

func TestSnapshotRegionTombstonePage(t *testing.T) {
	r := NewSnapshotRegion(memapi.NormalizedRegion{Base: 0x1000, Size: 0x2000}, []uint64{0x1000, 0x2000})
	r.TombstonePage(0x2000)
	if !r.PageBoundaryTombstones[0x1000] {
		t.Error("0x2000 absolute should tombstone relative offset 0x1000")
	}
	r.TombstonePage(0x500) // before the region's base, must be ignored
	if len(r.PageBoundaryTombstones) != 1 {
		t.Error("tombstoning an address before the region's base should have no effect")
	}
}

func TestAbsolutePageBoundaries(t *testing.T) {
	r := NewSnapshotRegion(memapi.NormalizedRegion{Base: 0x1000, Size: 0x3000}, []uint64{0x2000})
	abs := r.AbsolutePageBoundaries()
	if len(abs) != 1 || abs[0] != 0x2000 {
		t.Fatalf("got %v", abs)
	}
}
