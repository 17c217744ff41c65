package scanning

import (
	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/scanning/plan"
	"github.com/ptscan/ptscan/snapshot"
)

// SingleElementScanner handles a filter exactly one element wide: the
// cheapest possible case, a single scalar evaluation with no loop and no
// run-length encoding beyond "keep" or "drop".
type SingleElementScanner struct{}

func (SingleElementScanner) Scan(filter snapshot.Filter, current, previous []byte, dt datatype.DataType, meta datatype.DataTypeMetaData, p plan.Params) ([]snapshot.Filter, error) {
	scalar, err := buildScalar(dt, meta, p)
	if err != nil {
		return nil, err
	}
	if scalar(current, previous) {
		return []snapshot.Filter{filter}, nil
	}
	return nil, nil
}
