package rle

import (
	"reflect"
	"testing"

	"github.com/ptscan/ptscan/snapshot"
)

func TestEncoderMergesAdjacentRanges(t *testing.T) {
	e := New(0x1000)
	e.EncodeRange(4)
	e.EncodeRange(4)
	e.FinalizeCurrentEncode(0)

	want := []snapshot.Filter{{Base: 0x1000, Size: 8}}
	if got := e.TakeResultRegions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestEncoderSeparatesNonAdjacentRuns(t *testing.T) {
	e := New(0x1000)
	e.EncodeRange(4)
	e.FinalizeCurrentEncode(4) // gap
	e.EncodeRange(4)
	e.FinalizeCurrentEncode(0)

	want := []snapshot.Filter{
		{Base: 0x1000, Size: 4},
		{Base: 0x1008, Size: 4},
	}
	if got := e.TakeResultRegions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestEncoderDropsEmptyRuns(t *testing.T) {
	e := New(0x1000)
	e.FinalizeCurrentEncode(4) // nothing encoded yet, pure gap
	e.FinalizeCurrentEncode(0)
	if got := e.TakeResultRegions(); len(got) != 0 {
		t.Fatalf("expected no filters, got %+v", got)
	}
}

func TestEncoderMinimumSizeDropsShortRuns(t *testing.T) {
	e := New(0x1000)
	e.EncodeRange(2)
	e.FinalizeCurrentEncodeWithMinimumSize(2, 4)
	if got := e.TakeResultRegions(); len(got) != 0 {
		t.Fatalf("a 2-byte run below minSize 4 should be dropped, got %+v", got)
	}

	e.EncodeRange(4)
	e.FinalizeCurrentEncodeWithMinimumSize(0, 4)
	want := []snapshot.Filter{{Base: 0x1000 + 2 + 2, Size: 4}}
	if got := e.TakeResultRegions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestTakeResultRegionsResetsOutputNotCursor(t *testing.T) {
	e := New(0)
	e.EncodeRange(4)
	e.FinalizeCurrentEncode(0)
	first := e.TakeResultRegions()
	if len(first) != 1 {
		t.Fatalf("got %d results, want 1", len(first))
	}
	if second := e.TakeResultRegions(); len(second) != 0 {
		t.Fatalf("results should be drained after Take, got %+v", second)
	}

	e.EncodeRange(4)
	e.FinalizeCurrentEncode(0)
	third := e.TakeResultRegions()
	if len(third) != 1 || third[0].Base != 4 {
		t.Fatalf("cursor should continue from where it left off, got %+v", third)
	}
}
