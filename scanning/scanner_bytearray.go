package scanning

import (
	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/scanning/plan"
	"github.com/ptscan/ptscan/scanning/rle"
	"github.com/ptscan/ptscan/snapshot"
)

// ByteArrayScanner locates a fixed-length byte pattern. Equal against a
// literal pattern uses Boyer-Moore-Horspool, skipping ahead by the
// pattern's bad-character table instead of testing every offset; NotEqual
// compares the pattern at every aligned offset; the remaining array
// predicates (Changed/Unchanged/Increased/Decreased and
// their ByX variants) need the previous buffer at every offset, where
// Horspool's skip table buys nothing, so they fall back to the
// element-wise sweep.
type ByteArrayScanner struct{}

func (ByteArrayScanner) Scan(filter snapshot.Filter, current, previous []byte, dt datatype.DataType, meta datatype.DataTypeMetaData, p plan.Params) ([]snapshot.Filter, error) {
	scalar, err := buildScalar(dt, meta, p)
	if err != nil {
		return nil, err
	}

	if (p.Predicate == datatype.Equal || p.Predicate == datatype.NotEqual) && p.Immediate != nil {
		return scanByteArrayHorspool(filter, current, p.Immediate.Bytes, uint64(p.Alignment), p.Predicate == datatype.NotEqual), nil
	}

	return elementWiseScan(filter, current, previous, p.UnitSize, uint64(p.Alignment), scalar), nil
}

func scanByteArrayHorspool(filter snapshot.Filter, haystack, pattern []byte, alignment uint64, negate bool) []snapshot.Filter {
	m := len(pattern)
	if m == 0 || len(haystack) < m {
		return nil
	}

	skip := horspoolSkipTable(pattern)

	if !negate {
		// Every match covers its full m-byte window, not just one
		// alignment slot: two matches closer together than m bytes
		// overlap and must merge into one filter spanning both.
		covered := make([]bool, len(haystack))
		pos := uint64(0)
		n := uint64(len(haystack))
		u := uint64(m)
		for pos+u <= n {
			if bytesEqualRange(haystack[pos:pos+u], pattern) {
				for i := pos; i < pos+u; i++ {
					covered[i] = true
				}
				pos += alignment
				continue
			}

			last := haystack[pos+u-1]
			s, ok := skip[last]
			if !ok || s == 0 {
				s = alignment
			}
			// Round the skip up to a multiple of alignment so the
			// search never drifts off the candidate grid.
			if s%alignment != 0 {
				s += alignment - (s % alignment)
			}
			pos += s
		}
		return coverageScan(filter, covered)
	}

	enc := rle.New(filter.Base)

	// NotEqual: every aligned offset that is NOT an exact match survives.
	u := uint64(m)
	n := uint64(len(haystack))
	for pos := uint64(0); pos+u <= n; pos += alignment {
		if bytesEqualRange(haystack[pos:pos+u], pattern) {
			enc.FinalizeCurrentEncode(alignment)
		} else {
			enc.EncodeRange(alignment)
		}
	}
	enc.FinalizeCurrentEncode(0)
	return enc.TakeResultRegions()
}

func bytesEqualRange(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// horspoolSkipTable maps each byte value to how far the window may
// safely advance when that byte is seen at the pattern's final position
// without producing a match, per Horspool's 1980 algorithm.
func horspoolSkipTable(pattern []byte) map[byte]uint64 {
	m := len(pattern)
	table := make(map[byte]uint64, m)
	for i := 0; i < m-1; i++ {
		table[pattern[i]] = uint64(m - 1 - i)
	}
	return table
}
