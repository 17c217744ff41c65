package scanning

import (
	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/snapshot"
)

// SeedFilterCollection builds the single whole-region filter a region
// starts a brand new scan with: there is no narrower candidate set yet,
// so the first ScanCompareType applied to it is evaluated against every
// aligned offset in the region.
func SeedFilterCollection(region *snapshot.SnapshotRegion, ref datatype.DataTypeRef, alignment snapshot.Alignment) *snapshot.FilterCollection {
	return snapshot.NewFilterCollection(
		[]snapshot.Filter{{Base: region.Region.Base, Size: region.Region.Size}},
		ref,
		alignment,
	)
}
