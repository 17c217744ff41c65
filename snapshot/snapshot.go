package snapshot

import "github.com/ptscan/ptscan/memapi"

// Snapshot is the ordered sequence of SnapshotRegions that makes up one
// capture of a target's address space. It owns its regions exclusively;
// regions own their buffers and scan results exclusively in turn -- a
// strict tree: no cyclic ownership anywhere in the structure.
type Snapshot struct {
	Regions []*SnapshotRegion
}

// New builds a fresh snapshot from the OS memory map: one SnapshotRegion
// per queried virtual page range, with no buffered bytes yet (the caller
// must refresh before the first scan) and no scan results (the first
// ScanCompareType applied against a region seeds one filter spanning the
// whole region -- see scanning.SeedFilterCollection).
func New(regions []memapi.NormalizedRegion, pageBoundariesFor func(memapi.NormalizedRegion) []uint64) *Snapshot {
	out := make([]*SnapshotRegion, 0, len(regions))
	for _, r := range regions {
		var bounds []uint64
		if pageBoundariesFor != nil {
			bounds = pageBoundariesFor(r)
		}
		out = append(out, NewSnapshotRegion(r, bounds))
	}
	return &Snapshot{Regions: out}
}

// CollectGarbage drops every region whose filters have shrunk it to
// nothing (Region.Size == 0, see SnapshotRegion.MarkForGC).
func (s *Snapshot) CollectGarbage() {
	kept := s.Regions[:0]
	for _, r := range s.Regions {
		if !r.IsGarbage() {
			kept = append(kept, r)
		}
	}
	s.Regions = kept
}

// TotalFilterCount sums FilterCollection.Count() for typeID across every
// region: the number of surviving filters (runs of candidate addresses,
// not individual addresses) for that scan.
func (s *Snapshot) TotalFilterCount(typeID string) int {
	n := 0
	for _, r := range s.Regions {
		if c, ok := r.ScanResults.ForType(typeID); ok {
			n += c.Count()
		}
	}
	return n
}
