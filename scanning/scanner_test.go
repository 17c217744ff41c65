package scanning

import (
	"reflect"
	"testing"

	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/scanning/plan"
	"github.com/ptscan/ptscan/snapshot"
)

func mustType(t *testing.T, id string) datatype.DataType {
	t.Helper()
	dt, ok := datatype.Default.Get(id)
	if !ok {
		t.Fatalf("type %q not registered", id)
	}
	return dt
}

func le32(v int32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func TestSingleElementScannerMatch(t *testing.T) {
	dt := mustType(t, "i32")
	imm := datatype.DataValue{Bytes: le32(10)}
	p := plan.Params{Predicate: datatype.Equal, Immediate: &imm, UnitSize: 4, Alignment: snapshot.Align4}
	filter := snapshot.Filter{Base: 0x2000, Size: 4}

	out, err := (SingleElementScanner{}).Scan(filter, le32(10), nil, dt, datatype.DataTypeMetaData{}, p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, []snapshot.Filter{filter}) {
		t.Fatalf("got %+v, want the filter unchanged", out)
	}

	out, err = (SingleElementScanner{}).Scan(filter, le32(11), nil, dt, datatype.DataTypeMetaData{}, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("non-matching element should be dropped, got %+v", out)
	}
}

func TestScalarIterativeScannerNarrows(t *testing.T) {
	dt := mustType(t, "i32")
	imm := datatype.DataValue{Bytes: le32(0)}
	p := plan.Params{Predicate: datatype.GreaterThan, Immediate: &imm, UnitSize: 4, Alignment: snapshot.Align4}

	var buf []byte
	values := []int32{-1, 5, -2, 7}
	for _, v := range values {
		buf = append(buf, le32(v)...)
	}
	filter := snapshot.Filter{Base: 0x1000, Size: uint64(len(buf))}

	out, err := (ScalarIterativeScanner{}).Scan(filter, buf, nil, dt, datatype.DataTypeMetaData{}, p)
	if err != nil {
		t.Fatal(err)
	}
	want := []snapshot.Filter{
		{Base: 0x1004, Size: 4}, // index 1, value 5
		{Base: 0x100C, Size: 4}, // index 3, value 7
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %+v, want %+v", out, want)
	}
}

func TestVectorAlignedAgreesWithScalarIterative(t *testing.T) {
	dt := mustType(t, "i32")
	imm := datatype.DataValue{Bytes: le32(0)}
	base := plan.Params{Predicate: datatype.GreaterThan, Immediate: &imm, UnitSize: 4, Alignment: snapshot.Align4}

	var buf []byte
	values := []int32{1, -1, 2, -2, 3, -3, 4, -4, 5, -5, 6, -6, 7, -7, 8, -8, 9}
	for _, v := range values {
		buf = append(buf, le32(v)...)
	}
	filter := snapshot.Filter{Base: 0x4000, Size: uint64(len(buf))}

	scalarOut, err := (ScalarIterativeScanner{}).Scan(filter, buf, nil, dt, datatype.DataTypeMetaData{}, base)
	if err != nil {
		t.Fatal(err)
	}

	vecParams := base
	vecParams.VectorWidth = 16
	vecOut, err := (VectorAlignedScanner{}).Scan(filter, buf, nil, dt, datatype.DataTypeMetaData{}, vecParams)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(scalarOut, vecOut) {
		t.Fatalf("vector-aligned and scalar-iterative disagree:\n vector=%+v\n scalar=%+v", vecOut, scalarOut)
	}
}

func TestVectorSparseFallsBackWhenAlignmentNotMultipleOfUnit(t *testing.T) {
	dt := mustType(t, "i32")
	imm := datatype.DataValue{Bytes: le32(0)}
	// alignment 3 is not a multiple of unit size 4: must fall back to the
	// element-wise sweep rather than sampling a vector mask.
	p := plan.Params{Predicate: datatype.GreaterThan, Immediate: &imm, UnitSize: 4, Alignment: snapshot.Alignment(3), VectorWidth: 16}

	buf := append(le32(5), le32(-5)...)
	filter := snapshot.Filter{Base: 0x1000, Size: uint64(len(buf))}
	out, err := (VectorSparseScanner{}).Scan(filter, buf, nil, dt, datatype.DataTypeMetaData{}, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Base != 0x1000 {
		t.Fatalf("got %+v", out)
	}
}

func TestVectorSparseSamplesWiderStride(t *testing.T) {
	dt := mustType(t, "i32")
	imm := datatype.DataValue{Bytes: le32(0)}
	p := plan.Params{Predicate: datatype.GreaterThan, Immediate: &imm, UnitSize: 4, Alignment: snapshot.Align8, VectorWidth: 16}

	// Two adjacent i32s per 8-byte stride; only the first of each pair is
	// a candidate address, so its value alone should decide the match.
	var buf []byte
	buf = append(buf, le32(5)...)  // candidate: matches (>0)
	buf = append(buf, le32(-9)...) // not a candidate address, ignored
	buf = append(buf, le32(-5)...) // candidate: no match
	buf = append(buf, le32(9)...)  // not a candidate address, ignored
	filter := snapshot.Filter{Base: 0x1000, Size: uint64(len(buf))}

	out, err := (VectorSparseScanner{}).Scan(filter, buf, nil, dt, datatype.DataTypeMetaData{}, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Base != 0x1000 || out[0].Size != 8 {
		t.Fatalf("got %+v, want one 8-byte run at the base", out)
	}
}

func TestVectorOverlappingReportsIsolatedMatchInFull(t *testing.T) {
	dt := mustType(t, "i32")
	// Unit size 4, alignment 1: every byte offset is a candidate. Only
	// offset 0 is a genuine 4-byte match; it must be reported in full
	// even though it doesn't chain into further alignment-slot hits.
	imm := datatype.DataValue{Bytes: le32(0x01010101)}
	p := plan.Params{Predicate: datatype.Equal, Immediate: &imm, UnitSize: 4, Alignment: snapshot.Align1}

	buf := []byte{0x01, 0x01, 0x01, 0x01, 0x00}
	filter := snapshot.Filter{Base: 0x1000, Size: uint64(len(buf))}
	out, err := (VectorOverlappingScanner{}).Scan(filter, buf, nil, dt, datatype.DataTypeMetaData{}, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Base != 0x1000 || out[0].Size != 4 {
		t.Fatalf("got %+v, want exactly one full-width match", out)
	}
}

func TestVectorOverlappingMergesOverlappingMatches(t *testing.T) {
	dt := mustType(t, "i32")
	// Two matching 4-byte windows one alignment slot apart overlap in
	// three bytes; their coverage must merge into a single 5-byte run
	// rather than two separate 4-byte filters.
	imm := datatype.DataValue{Bytes: le32(0x01010101)}
	p := plan.Params{Predicate: datatype.Equal, Immediate: &imm, UnitSize: 4, Alignment: snapshot.Align1}

	buf := []byte{0x01, 0x01, 0x01, 0x01, 0x01}
	filter := snapshot.Filter{Base: 0x2000, Size: uint64(len(buf))}
	out, err := (VectorOverlappingScanner{}).Scan(filter, buf, nil, dt, datatype.DataTypeMetaData{}, p)
	if err != nil {
		t.Fatal(err)
	}
	want := []snapshot.Filter{{Base: 0x2000, Size: 5}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %+v, want %+v", out, want)
	}
}

func TestByteArrayScannerEqualAgreesWithElementWiseBruteForce(t *testing.T) {
	dt := mustType(t, "byte_array")
	pattern := []byte("needle")
	imm := datatype.DataValue{Bytes: pattern}
	p := plan.Params{Predicate: datatype.Equal, Immediate: &imm, UnitSize: int64(len(pattern)), Alignment: snapshot.Align1}

	haystack := []byte("xxneedlexxxneedlexneedlxx" + "needle")
	filter := snapshot.Filter{Base: 0x8000, Size: uint64(len(haystack))}

	horspool, err := (ByteArrayScanner{}).Scan(filter, haystack, nil, dt, datatype.DataTypeMetaData{Length: len(pattern)}, p)
	if err != nil {
		t.Fatal(err)
	}

	// Independent oracle: mark every byte of every literal match window
	// covered (no skip-table shortcut), then merge via the same coverage
	// union the scanner itself relies on to report whole-pattern-length
	// filters rather than single alignment slots.
	m := len(pattern)
	covered := make([]bool, len(haystack))
	for pos := 0; pos+m <= len(haystack); pos++ {
		if bytesEqualRange(haystack[pos:pos+m], pattern) {
			for i := pos; i < pos+m; i++ {
				covered[i] = true
			}
		}
	}
	bruteForce := coverageScan(filter, covered)

	if !reflect.DeepEqual(horspool, bruteForce) {
		t.Fatalf("Horspool and brute-force coverage disagree:\n horspool=%+v\n bruteforce=%+v", horspool, bruteForce)
	}
	if len(horspool) != 3 {
		t.Fatalf("expected three occurrences of \"needle\" (the fourth candidate, \"needlx\", doesn't match), got %+v", horspool)
	}
	for _, f := range horspool {
		if f.Size != uint64(m) {
			t.Errorf("got filter %+v, want a full %d-byte match, not an alignment slot", f, m)
		}
	}
}

func TestByteArrayScannerNotEqualAgreesWithBruteForce(t *testing.T) {
	dt := mustType(t, "byte_array")
	pattern := []byte("ab")
	imm := datatype.DataValue{Bytes: pattern}
	p := plan.Params{Predicate: datatype.NotEqual, Immediate: &imm, UnitSize: 2, Alignment: snapshot.Align1}

	haystack := []byte("ababxxab")
	filter := snapshot.Filter{Base: 0, Size: uint64(len(haystack))}

	horspool, err := (ByteArrayScanner{}).Scan(filter, haystack, nil, dt, datatype.DataTypeMetaData{Length: 2}, p)
	if err != nil {
		t.Fatal(err)
	}
	scalar, err := buildScalar(dt, datatype.DataTypeMetaData{Length: 2}, p)
	if err != nil {
		t.Fatal(err)
	}
	bruteForce := elementWiseScan(filter, haystack, nil, 2, 1, scalar)
	if !reflect.DeepEqual(horspool, bruteForce) {
		t.Fatalf("got %+v, want %+v", horspool, bruteForce)
	}
}

func TestByteArrayScannerEqualMergesOverlappingMatches(t *testing.T) {
	dt := mustType(t, "byte_array")
	pattern := []byte("aa")
	imm := datatype.DataValue{Bytes: pattern}
	p := plan.Params{Predicate: datatype.Equal, Immediate: &imm, UnitSize: 2, Alignment: snapshot.Align1}

	// "aaaa" contains three overlapping occurrences of "aa" (at offsets
	// 0, 1, 2); their 2-byte coverage windows all overlap and must merge
	// into a single 4-byte filter, not three separate 2-byte ones.
	haystack := []byte("aaaa")
	filter := snapshot.Filter{Base: 0x1000, Size: uint64(len(haystack))}

	out, err := (ByteArrayScanner{}).Scan(filter, haystack, nil, dt, datatype.DataTypeMetaData{Length: 2}, p)
	if err != nil {
		t.Fatal(err)
	}
	want := []snapshot.Filter{{Base: 0x1000, Size: 4}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %+v, want %+v", out, want)
	}
}

func TestByteArrayScannerFallsBackForNonLiteralPredicates(t *testing.T) {
	dt := mustType(t, "byte_array")
	p := plan.Params{Predicate: datatype.Changed, UnitSize: 3, Alignment: snapshot.Align1}
	cur := []byte("abcxyz")
	prev := []byte("abcabc")
	filter := snapshot.Filter{Base: 0, Size: uint64(len(cur))}

	out, err := (ByteArrayScanner{}).Scan(filter, cur, prev, dt, datatype.DataTypeMetaData{Length: 3}, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatal("expected the changed second window to survive")
	}
}
