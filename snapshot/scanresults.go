package snapshot

// ScanResults is the set of filter collections owned by one
// SnapshotRegion. A region can simultaneously hold collections for more
// than one in-flight data type (e.g. the user is scanning both an i32 and
// an f32 candidate at once).
type ScanResults struct {
	Collections []*FilterCollection
}

// NewScanResults returns an empty result set.
func NewScanResults() *ScanResults {
	return &ScanResults{}
}

// Bounds returns the lowest base address and highest end address across
// every filter in every collection, used to shrink the owning region
// after a scan narrows its candidates.
func (s *ScanResults) Bounds() (lowest, highest uint64, ok bool) {
	for _, c := range s.Collections {
		lo, hi, present := c.Bounds()
		if !present {
			continue
		}
		if !ok || lo < lowest {
			lowest = lo
		}
		if !ok || hi > highest {
			highest = hi
		}
		ok = true
	}
	return
}

// IsEmpty reports whether every collection is empty.
func (s *ScanResults) IsEmpty() bool {
	for _, c := range s.Collections {
		if c.Count() > 0 {
			return false
		}
	}
	return true
}

// Replace swaps out the collection with the same DataTypeRef.ID as
// updated, appending it if no matching collection exists yet.
func (s *ScanResults) Replace(updated *FilterCollection) {
	for i, c := range s.Collections {
		if c.Type.ID == updated.Type.ID {
			s.Collections[i] = updated
			return
		}
	}
	s.Collections = append(s.Collections, updated)
}

// ForType returns the collection currently tracking typeID, if any.
func (s *ScanResults) ForType(typeID string) (*FilterCollection, bool) {
	for _, c := range s.Collections {
		if c.Type.ID == typeID {
			return c, true
		}
	}
	return nil, false
}
