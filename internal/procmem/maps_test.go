//go:build linux

package procmem

import (
	"testing"

	"github.com/ptscan/ptscan/memapi"
)

func TestParseMapsLineAnonymous(t *testing.T) {
	line, ok := parseMapsLine("7f1234560000-7f1234561000 rw-p 00000000 00:00 0")
	if !ok {
		t.Fatal("expected a parsed line")
	}
	if line.start != 0x7f1234560000 || line.end != 0x7f1234561000 {
		t.Fatalf("got %#x-%#x", line.start, line.end)
	}
	if line.pathname != "" {
		t.Errorf("got pathname %q, want empty", line.pathname)
	}
}

func TestParseMapsLineFileBacked(t *testing.T) {
	line, ok := parseMapsLine("55a000-55b000 r-xp 00000000 08:01 131 /usr/bin/example")
	if !ok {
		t.Fatal("expected a parsed line")
	}
	if line.pathname != "/usr/bin/example" {
		t.Errorf("got pathname %q", line.pathname)
	}
}

func TestParseMapsLineMalformedSkipped(t *testing.T) {
	if _, ok := parseMapsLine(""); ok {
		t.Error("empty line should not parse")
	}
	if _, ok := parseMapsLine("not-hex-zzzz rw-p 0 00:00 0"); ok {
		t.Error("non-hex address range should not parse")
	}
	if _, ok := parseMapsLine("1000"); ok {
		t.Error("a line with too few fields should not parse")
	}
}

func TestParsePerm(t *testing.T) {
	cases := []struct {
		in   string
		want memapi.Protection
	}{
		{"rwxp", memapi.ProtRead | memapi.ProtWrite | memapi.ProtExecute | memapi.ProtCopyOnWrite},
		{"r--s", memapi.ProtRead | memapi.ProtShared},
		{"----", 0},
		{"bad", 0}, // wrong length
	}
	for _, c := range cases {
		if got := parsePerm(c.in); got != c.want {
			t.Errorf("parsePerm(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRegionType(t *testing.T) {
	if regionType(mapsLine{pathname: ""}) != memapi.RegionPrivate {
		t.Error("anonymous mapping should be RegionPrivate")
	}
	if regionType(mapsLine{pathname: "[heap]"}) != memapi.RegionPrivate {
		t.Error("bracketed pseudo-path should be RegionPrivate")
	}
	if regionType(mapsLine{pathname: "/lib/libc.so"}) != memapi.RegionImage {
		t.Error("file-backed mapping should be RegionImage")
	}
}

func TestProtectionMatches(t *testing.T) {
	if !protectionMatches(memapi.ProtRead|memapi.ProtWrite, memapi.ProtRead, 0) {
		t.Error("rw mapping should satisfy a read requirement")
	}
	if protectionMatches(memapi.ProtRead, memapi.ProtRead|memapi.ProtWrite, 0) {
		t.Error("read-only mapping should not satisfy a read+write requirement")
	}
	if protectionMatches(memapi.ProtRead|memapi.ProtExecute, memapi.ProtRead, memapi.ProtExecute) {
		t.Error("executable mapping should be excluded when ProtExecute is excluded")
	}
}

func TestTypeAllowed(t *testing.T) {
	if !typeAllowed(memapi.RegionImage, nil) {
		t.Error("empty allow-list should permit everything")
	}
	if !typeAllowed(memapi.RegionImage, []memapi.RegionType{memapi.RegionPrivate, memapi.RegionImage}) {
		t.Error("RegionImage is in the allow-list")
	}
	if typeAllowed(memapi.RegionImage, []memapi.RegionType{memapi.RegionPrivate}) {
		t.Error("RegionImage is not in the allow-list")
	}
}

func TestClipToWindowFullyOutside(t *testing.T) {
	if _, _, ok := clipToWindow(0x1000, 0x2000, 0x3000, 0x4000, memapi.BoundsExclude); ok {
		t.Error("mapping entirely before the window should not match")
	}
	if _, _, ok := clipToWindow(0x5000, 0x6000, 0x3000, 0x4000, memapi.BoundsExclude); ok {
		t.Error("mapping entirely after the window should not match")
	}
}

func TestClipToWindowStraddleExclude(t *testing.T) {
	if _, _, ok := clipToWindow(0x1000, 0x5000, 0x2000, 0x3000, memapi.BoundsExclude); ok {
		t.Error("a straddling mapping should be excluded under BoundsExclude")
	}
}

func TestClipToWindowStraddleResize(t *testing.T) {
	base, size, ok := clipToWindow(0x1000, 0x5000, 0x2000, 0x3000, memapi.BoundsResize)
	if !ok {
		t.Fatal("expected a clipped match")
	}
	if base != 0x2000 || size != 0x1000 {
		t.Fatalf("got base %#x size %#x, want base 0x2000 size 0x1000", base, size)
	}
}

func TestClipToWindowStraddleInclude(t *testing.T) {
	base, size, ok := clipToWindow(0x1000, 0x5000, 0x2000, 0x3000, memapi.BoundsInclude)
	if !ok {
		t.Fatal("expected a match")
	}
	if base != 0x1000 || size != 0x4000 {
		t.Fatalf("got base %#x size %#x, want the mapping's own full bounds", base, size)
	}
}

func TestClipToWindowFullyInside(t *testing.T) {
	base, size, ok := clipToWindow(0x2100, 0x2200, 0x2000, 0x3000, memapi.BoundsResize)
	if !ok {
		t.Fatal("expected a match")
	}
	if base != 0x2100 || size != 0x100 {
		t.Fatalf("got base %#x size %#x", base, size)
	}
}
