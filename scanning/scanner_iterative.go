package scanning

import (
	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/scanning/plan"
	"github.com/ptscan/ptscan/snapshot"
)

// ScalarIterativeScanner walks a filter one alignment-stride at a time,
// used whenever the filter is too small to fill even the narrowest
// vector width.
type ScalarIterativeScanner struct{}

func (ScalarIterativeScanner) Scan(filter snapshot.Filter, current, previous []byte, dt datatype.DataType, meta datatype.DataTypeMetaData, p plan.Params) ([]snapshot.Filter, error) {
	scalar, err := buildScalar(dt, meta, p)
	if err != nil {
		return nil, err
	}
	return elementWiseScan(filter, current, previous, p.UnitSize, uint64(p.Alignment), scalar), nil
}
