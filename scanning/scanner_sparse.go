package scanning

import (
	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/scanning/plan"
	"github.com/ptscan/ptscan/scanning/rle"
	"github.com/ptscan/ptscan/snapshot"
)

// VectorSparseScanner handles alignment wider than the type's unit size:
// most of a vector's lanes land on addresses the user doesn't care about,
// so the kernel still evaluates a full lane block at once but keeps only
// every (alignment/unitSize)'th lane's result.
type VectorSparseScanner struct{}

func (VectorSparseScanner) Scan(filter snapshot.Filter, current, previous []byte, dt datatype.DataType, meta datatype.DataTypeMetaData, p plan.Params) ([]snapshot.Filter, error) {
	u := p.UnitSize
	a := int64(p.Alignment)

	if a%u != 0 {
		// Alignment isn't a whole multiple of the lane size: the lane
		// mask can't be sampled directly, fall back to the always-
		// correct element-wise sweep.
		scalar, err := buildScalar(dt, meta, p)
		if err != nil {
			return nil, err
		}
		return elementWiseScan(filter, current, previous, u, uint64(a), scalar), nil
	}

	vector, err := dt.VectorComparer(meta, p.Predicate, p.VectorWidth, p.Immediate, p.Delta, p.Tolerance)
	if err != nil {
		return nil, err
	}

	mask := vector(current, previous)
	enc := rle.New(filter.Base)
	stride := uint64(a)

	var offset int64
	for offset+u <= int64(len(mask)) {
		if mask[offset] != 0 {
			enc.EncodeRange(stride)
		} else {
			enc.FinalizeCurrentEncode(stride)
		}
		offset += a
	}
	enc.FinalizeCurrentEncode(0)
	return enc.TakeResultRegions(), nil
}
