package scanning

import (
	"context"

	"github.com/ptscan/ptscan/internal/fanout"
	"github.com/ptscan/ptscan/internal/logutil"
	"github.com/ptscan/ptscan/memapi"
	"github.com/ptscan/ptscan/snapshot"
)

// ChunkSize is the largest single OS read a Reader issues within one
// page-bounded segment. Splitting large mapped regions into chunks this
// size lets their reads fan out across workers even though the region
// has no internal page boundary recorded.
const ChunkSize = 16 * 1024

// Reader refreshes SnapshotRegion byte buffers from a live process,
// swapping the previous scan's CurrentValues into PreviousValues first.
// It is the one piece of the engine that talks to memapi.MemoryReader.
type Reader struct {
	MemReader memapi.MemoryReader
	Log       *logutil.Logger

	// SingleThreaded forces sequential reads, for deterministic ordering.
	SingleThreaded bool
}

// NewReader returns a Reader with a no-op logger if log is nil.
func NewReader(mr memapi.MemoryReader, log *logutil.Logger) *Reader {
	return &Reader{MemReader: mr, Log: log}
}

// RefreshRegion swaps region's current buffer into previous and reads a
// fresh image of the target's bytes into current. Reads are split at the
// region's recorded page boundaries so a fault in one OS page cannot
// invalidate bytes the process could still deliver from its neighbors;
// a page whose read fails is tombstoned and its previous bytes are kept
// in place rather than zeroed or left uninitialized. On return both
// buffers are Region.Size long; on a region's first refresh the previous
// image is all zeros.
func (r *Reader) RefreshRegion(ctx context.Context, proc memapi.ProcessHandle, region *snapshot.SnapshotRegion) {
	size := int(region.Region.Size)
	if size == 0 {
		return
	}

	region.PreviousValues, region.CurrentValues = region.CurrentValues, region.PreviousValues
	if len(region.PreviousValues) != size {
		region.PreviousValues = make([]byte, size)
	}
	if cap(region.CurrentValues) < size {
		region.CurrentValues = make([]byte, size)
	} else {
		region.CurrentValues = region.CurrentValues[:size]
	}

	segments := segmentBounds(region.Region.Base, region.Region.End(), region.PageBoundaries)

	fanout.Do(len(segments), r.SingleThreaded, func(i int) {
		r.readSegment(ctx, proc, region, segments[i])
	})
}

type segment struct {
	start, end uint64 // absolute addresses
}

// segmentBounds turns a sorted list of relative page-boundary offsets
// into the absolute [start, end) ranges a RefreshRegion read must treat
// as independently-failing units.
func segmentBounds(base, end uint64, boundariesRel []uint64) []segment {
	out := make([]segment, 0, len(boundariesRel)+1)
	start := base
	for _, off := range boundariesRel {
		abs := base + off
		if abs > start && abs < end {
			out = append(out, segment{start: start, end: abs})
			start = abs
		}
	}
	out = append(out, segment{start: start, end: end})
	return out
}

func (r *Reader) readSegment(ctx context.Context, proc memapi.ProcessHandle, region *snapshot.SnapshotRegion, seg segment) {
	relStart := seg.start - region.Region.Base
	relEnd := seg.end - region.Region.Base
	dst := region.CurrentValues[relStart:relEnd]

	ok := r.readChunked(ctx, proc, seg.start, dst)
	if ok {
		delete(region.PageBoundaryTombstones, relStart)
		return
	}

	region.TombstonePage(seg.start)
	if len(region.PreviousValues) == len(region.CurrentValues) {
		copy(dst, region.PreviousValues[relStart:relEnd])
	}
	if r.Log != nil {
		r.Log.Printf("read failed for [%#x, %#x), keeping stale bytes", seg.start, seg.end)
	}
}

// readChunked reads dst in ChunkSize pieces so a large segment's read
// fans out across workers the same way RefreshRegion fans out segments.
// It reports whether every chunk succeeded.
func (r *Reader) readChunked(ctx context.Context, proc memapi.ProcessHandle, base uint64, dst []byte) bool {
	n := len(dst)
	if n <= ChunkSize {
		return r.MemReader.ReadBytes(ctx, proc, base, dst)
	}

	nChunks := (n + ChunkSize - 1) / ChunkSize
	results := fanout.DoSlice(indices(nChunks), r.SingleThreaded, func(i int) bool {
		off := i * ChunkSize
		end := off + ChunkSize
		if end > n {
			end = n
		}
		return r.MemReader.ReadBytes(ctx, proc, base+uint64(off), dst[off:end])
	})

	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
