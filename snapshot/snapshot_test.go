package snapshot

import (
	"testing"

	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/memapi"
)

func TestNewBuildsOneRegionPerQueriedRange(t *testing.T) {
	regions := []memapi.NormalizedRegion{
		{Base: 0x1000, Size: 0x1000},
		{Base: 0x5000, Size: 0x2000},
	}
	snap := New(regions, func(r memapi.NormalizedRegion) []uint64 {
		return []uint64{r.Base + 0x800}
	})
	if len(snap.Regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(snap.Regions))
	}
	if len(snap.Regions[0].PageBoundaries) != 1 {
		t.Errorf("expected the page-boundary callback to be honored per region")
	}
}

func TestSnapshotCollectGarbage(t *testing.T) {
	regions := []memapi.NormalizedRegion{
		{Base: 0x1000, Size: 0x10},
		{Base: 0x2000, Size: 0x10},
	}
	snap := New(regions, nil)
	snap.Regions[0].MarkForGC()
	snap.CollectGarbage()
	if len(snap.Regions) != 1 {
		t.Fatalf("got %d regions, want 1 after collecting the marked one", len(snap.Regions))
	}
	if snap.Regions[0].Region.Base != 0x2000 {
		t.Error("the surviving region should be the one that was not marked")
	}
}

func TestSnapshotTotalFilterCount(t *testing.T) {
	snap := New([]memapi.NormalizedRegion{{Base: 0x1000, Size: 0x100}}, nil)
	coll := NewFilterCollection([]Filter{{Base: 0x1000, Size: 4}, {Base: 0x1010, Size: 4}}, datatype.DataTypeRef{ID: "i32"}, Align4)
	snap.Regions[0].ScanResults.Replace(coll)
	if got := snap.TotalFilterCount("i32"); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	if got := snap.TotalFilterCount("f32"); got != 0 {
		t.Fatalf("got %d for an untracked type, want 0", got)
	}
}
