package scanning

import (
	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/scanning/plan"
	"github.com/ptscan/ptscan/snapshot"
)

// VectorOverlappingScanner handles alignment narrower than the type's
// unit size, so consecutive candidate elements overlap in memory. It is
// correct for both specializations a periodic immediate admits --
// bytewise periodic (p.Periodicity < p.UnitSize) and bytewise staggered
// (p.Periodicity == p.UnitSize, no shorter repeat) -- without needing to
// branch on which one applies, because every alignment-stride offset is
// evaluated independently and a match's full unitSize bytes are marked
// covered; overlapping matches merge via that coverage union rather than
// needing to chain into unitSize/alignment consecutive hits. A real SIMD
// backend would use Periodicity to skip redundant shifted comparisons;
// this portable implementation always re-evaluates every offset.
type VectorOverlappingScanner struct{}

func (VectorOverlappingScanner) Scan(filter snapshot.Filter, current, previous []byte, dt datatype.DataType, meta datatype.DataTypeMetaData, p plan.Params) ([]snapshot.Filter, error) {
	scalar, err := buildScalar(dt, meta, p)
	if err != nil {
		return nil, err
	}

	u := uint64(p.UnitSize)
	alignment := uint64(p.Alignment)
	n := uint64(len(current))
	covered := make([]bool, n)

	var offset uint64
	for offset+u <= n {
		cur := current[offset : offset+u]
		var prev []byte
		if previous != nil && uint64(len(previous)) >= offset+u {
			prev = previous[offset : offset+u]
		}
		if scalar(cur, prev) {
			for i := offset; i < offset+u; i++ {
				covered[i] = true
			}
		}
		offset += alignment
	}

	return coverageScan(filter, covered), nil
}
