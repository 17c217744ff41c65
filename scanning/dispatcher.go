package scanning

import (
	"context"

	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/errs"
	"github.com/ptscan/ptscan/internal/fanout"
	"github.com/ptscan/ptscan/internal/logutil"
	"github.com/ptscan/ptscan/scanning/plan"
	"github.com/ptscan/ptscan/snapshot"
)

// scanners maps every plan.ScannerKind to its implementation. Built once;
// none of these types carry state.
var scanners = map[plan.ScannerKind]Scanner{
	plan.ScalarSingleElement: SingleElementScanner{},
	plan.ScalarIterative:     ScalarIterativeScanner{},
	plan.VectorAligned:       VectorAlignedScanner{},
	plan.VectorSparse:        VectorSparseScanner{},
	plan.VectorOverlapping:   VectorOverlappingScanner{},
	plan.ByteArrayBoyerMoore: ByteArrayScanner{},
}

// Dispatcher drives one scan pass across every region of a Snapshot: for
// each filter in each of a region's filter collections it asks the
// planner for a plan.Params, runs the matching Scanner, and replaces the
// collection with the narrowed result.
type Dispatcher struct {
	Registry *datatype.Registry

	// MaxVectorWidth caps the vector width the planner may choose; the
	// CLI derives this from golang.org/x/sys/cpu feature detection.
	MaxVectorWidth int

	// SingleThreaded runs every filter sequentially instead of fanning
	// out, used for deterministic debug/validation runs.
	SingleThreaded bool

	Log *logutil.Logger
}

// NewDispatcher returns a Dispatcher bound to reg, defaulting to a
// 16-byte vector width cap (the narrowest the planner supports) until the
// caller overrides MaxVectorWidth with a real CPU feature probe.
func NewDispatcher(reg *datatype.Registry, log *logutil.Logger) *Dispatcher {
	return &Dispatcher{Registry: reg, MaxVectorWidth: 16, Log: log}
}

// ScanSnapshot applies predicate (with optional immediate/delta values)
// to typeID's filter collection across every region of snap, replacing
// each region's collection with the narrowed result and collecting the
// region afterward if it shrank to nothing.
func (d *Dispatcher) ScanSnapshot(ctx context.Context, snap *snapshot.Snapshot, typeID string, meta datatype.DataTypeMetaData, alignment snapshot.Alignment, predicate datatype.ScanCompareType, immediate, delta *datatype.DataValue, tol datatype.FloatingPointTolerance) error {
	ref := datatype.DataTypeRef{ID: typeID, Metadata: meta}
	dt, err := ref.Resolve(d.Registry)
	if err != nil {
		return err
	}

	fanout.Do(len(snap.Regions), d.SingleThreaded, func(i int) {
		d.scanRegion(ctx, snap.Regions[i], dt, meta, ref, alignment, predicate, immediate, delta, tol)
	})

	snap.CollectGarbage()
	return nil
}

func (d *Dispatcher) scanRegion(ctx context.Context, region *snapshot.SnapshotRegion, dt datatype.DataType, meta datatype.DataTypeMetaData, ref datatype.DataTypeRef, alignment snapshot.Alignment, predicate datatype.ScanCompareType, immediate, delta *datatype.DataValue, tol datatype.FloatingPointTolerance) {
	coll, ok := region.ScanResults.ForType(ref.ID)
	if !ok {
		coll = SeedFilterCollection(region, ref, alignment)
	}

	groups := make([][]snapshot.Filter, 0, len(coll.Groups))
	for _, group := range coll.Groups {
		narrowed := fanout.DoSlice(group, d.SingleThreaded, func(f snapshot.Filter) []snapshot.Filter {
			out, err := d.scanFilter(f, region, dt, meta, coll.Alignment, predicate, immediate, delta, tol)
			if err != nil {
				if d.Log != nil {
					d.Log.Printf("scan filter %#x+%#x failed: %v", f.Base, f.Size, err)
				}
				return nil
			}
			return out
		})
		flat := make([]snapshot.Filter, 0, len(group))
		for _, n := range narrowed {
			flat = append(flat, n...)
		}
		if len(flat) > 0 {
			groups = append(groups, flat)
		}
	}

	updated := &snapshot.FilterCollection{Groups: groups, Type: ref, Alignment: coll.Alignment}
	region.ScanResults.Replace(updated)

	if lo, hi, ok := updated.Bounds(); ok {
		region.Resize(lo, hi-lo)
	} else {
		region.MarkForGC()
	}
}

func (d *Dispatcher) scanFilter(f snapshot.Filter, region *snapshot.SnapshotRegion, dt datatype.DataType, meta datatype.DataTypeMetaData, alignment snapshot.Alignment, predicate datatype.ScanCompareType, immediate, delta *datatype.DataValue, tol datatype.FloatingPointTolerance) ([]snapshot.Filter, error) {
	if !f.ContainedIn(region.Region.Base, region.Region.Size) {
		return nil, &errs.InvalidScanParameters{Reason: "filter escapes its owning region"}
	}

	relBase := f.Base - region.Region.Base
	relEnd := relBase + f.Size
	current := region.CurrentValues[relBase:relEnd]
	var previous []byte
	if len(region.PreviousValues) == len(region.CurrentValues) {
		previous = region.PreviousValues[relBase:relEnd]
	}

	params := plan.Plan(f, alignment, dt, meta, predicate, immediate, delta, tol, d.MaxVectorWidth)
	scanner, ok := scanners[params.Kind]
	if !ok {
		return nil, &errs.UnsupportedPredicate{Predicate: predicate.String(), TypeID: dt.ID(), Path: "plan"}
	}
	return scanner.Scan(f, current, previous, dt, meta, params)
}
