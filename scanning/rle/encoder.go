// Package rle implements the filter run-length encoder: it turns a
// scanner's per-offset match/no-match stream into the minimal list of
// SnapshotRegionFilters describing the matching runs.
package rle

import "github.com/ptscan/ptscan/snapshot"

// Encoder is a stateful run-length encoder. Its zero value reports runs
// relative to base address 0; New sets any other base.
type Encoder struct {
	base    uint64
	run     uint64
	cursor  uint64
	results []snapshot.Filter
}

// New returns an encoder whose runs are reported as absolute addresses
// starting at base (the region or filter's base address).
func New(base uint64) *Encoder {
	return &Encoder{base: base}
}

// EncodeRange extends the current run by length bytes -- the scanner
// found a match spanning [cursor, cursor+length) relative to base.
func (e *Encoder) EncodeRange(length uint64) {
	e.run += length
	e.cursor += length
}

// FinalizeCurrentEncode commits the current run as a filter if it is
// non-empty, then skips gapLength bytes of non-matching data before the
// next run can start.
func (e *Encoder) FinalizeCurrentEncode(gapLength uint64) {
	e.FinalizeCurrentEncodeWithMinimumSize(gapLength, 0)
}

// FinalizeCurrentEncodeWithMinimumSize is FinalizeCurrentEncode but
// discards runs shorter than minSize. This is used when the scanner's
// element size is larger than its alignment, so a run of less than one
// full element's worth of alignment slots cannot be a real match.
func (e *Encoder) FinalizeCurrentEncodeWithMinimumSize(gapLength, minSize uint64) {
	if e.run > 0 {
		if e.run >= minSize {
			e.results = append(e.results, snapshot.Filter{
				Base: e.base + e.cursor - e.run,
				Size: e.run,
			})
		}
		e.run = 0
	}
	e.cursor += gapLength
}

// TakeResultRegions returns the filters accumulated so far and resets the
// encoder's output (but not its cursor position, so encoding may
// continue).
func (e *Encoder) TakeResultRegions() []snapshot.Filter {
	out := e.results
	e.results = nil
	return out
}
