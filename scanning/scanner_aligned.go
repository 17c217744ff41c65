package scanning

import (
	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/scanning/plan"
	"github.com/ptscan/ptscan/scanning/rle"
	"github.com/ptscan/ptscan/snapshot"
)

// VectorAlignedScanner handles the common case where alignment equals the
// type's unit size: every candidate address lines up exactly with one
// vector lane, so whole width-byte blocks can be compared at once with no
// overlap and no skipped slots.
type VectorAlignedScanner struct{}

func (VectorAlignedScanner) Scan(filter snapshot.Filter, current, previous []byte, dt datatype.DataType, meta datatype.DataTypeMetaData, p plan.Params) ([]snapshot.Filter, error) {
	vector, err := dt.VectorComparer(meta, p.Predicate, p.VectorWidth, p.Immediate, p.Delta, p.Tolerance)
	if err != nil {
		return nil, err
	}

	width := p.VectorWidth
	n := len(current)
	enc := rle.New(filter.Base)
	u := uint64(p.UnitSize)

	var offset int
	for offset+width <= n {
		var prevBlock []byte
		if previous != nil && len(previous) >= offset+width {
			prevBlock = previous[offset : offset+width]
		}
		mask := vector(current[offset:offset+width], prevBlock)
		for i := 0; i+int(u) <= len(mask); i += int(u) {
			if mask[i] != 0 {
				enc.EncodeRange(u)
			} else {
				enc.FinalizeCurrentEncode(u)
			}
		}
		offset += width
	}

	// Tail shorter than one vector width but still whole elements: fall
	// back to the scalar kernel for the remainder.
	if offset < n {
		scalar, err := buildScalar(dt, meta, p)
		if err != nil {
			return nil, err
		}
		for offset+int(u) <= n {
			var prevElem []byte
			if previous != nil && len(previous) >= offset+int(u) {
				prevElem = previous[offset : offset+int(u)]
			}
			if scalar(current[offset:offset+int(u)], prevElem) {
				enc.EncodeRange(u)
			} else {
				enc.FinalizeCurrentEncode(u)
			}
			offset += int(u)
		}
	}

	enc.FinalizeCurrentEncode(0)
	return enc.TakeResultRegions(), nil
}
