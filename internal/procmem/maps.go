//go:build linux

package procmem

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ptscan/ptscan/memapi"
)

// mapsLine is one parsed row of /proc/<pid>/maps.
type mapsLine struct {
	start, end uint64
	perm       memapi.Protection
	pathname   string
}

func readMaps(pid int) ([]mapsLine, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []mapsLine
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line, ok := parseMapsLine(sc.Text())
		if ok {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

// parseMapsLine parses one "start-end perms offset dev inode pathname"
// row. Malformed rows (there should be none) are skipped rather than
// failing the whole scan.
func parseMapsLine(text string) (mapsLine, bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return mapsLine{}, false
	}
	addrs := strings.SplitN(fields[0], "-", 2)
	if len(addrs) != 2 {
		return mapsLine{}, false
	}
	start, err := strconv.ParseUint(addrs[0], 16, 64)
	if err != nil {
		return mapsLine{}, false
	}
	end, err := strconv.ParseUint(addrs[1], 16, 64)
	if err != nil {
		return mapsLine{}, false
	}

	var path string
	if len(fields) >= 6 {
		path = fields[5]
	}

	return mapsLine{start: start, end: end, perm: parsePerm(fields[1]), pathname: path}, true
}

func parsePerm(s string) memapi.Protection {
	var p memapi.Protection
	if len(s) != 4 {
		return p
	}
	if s[0] == 'r' {
		p |= memapi.ProtRead
	}
	if s[1] == 'w' {
		p |= memapi.ProtWrite
	}
	if s[2] == 'x' {
		p |= memapi.ProtExecute
	}
	if s[3] == 's' {
		p |= memapi.ProtShared
	} else if s[3] == 'p' {
		p |= memapi.ProtCopyOnWrite
	}
	return p
}

func regionType(l mapsLine) memapi.RegionType {
	switch {
	case l.pathname == "":
		return memapi.RegionPrivate
	case strings.HasPrefix(l.pathname, "["):
		return memapi.RegionPrivate
	default:
		return memapi.RegionImage
	}
}

// GetVirtualPages implements memapi.MemoryQueryer.
func (r *Reader) GetVirtualPages(_ context.Context, proc memapi.ProcessHandle, requiredProtection, excludedProtection memapi.Protection, allowedTypes []memapi.RegionType, start, end uint64, policy memapi.BoundsPolicy) ([]memapi.NormalizedRegion, error) {
	lines, err := readMaps(proc.PID())
	if err != nil {
		return nil, fmt.Errorf("read /proc/%d/maps: %w", proc.PID(), err)
	}

	var out []memapi.NormalizedRegion
	for _, l := range lines {
		if !protectionMatches(l.perm, requiredProtection, excludedProtection) {
			continue
		}
		if !typeAllowed(regionType(l), allowedTypes) {
			continue
		}

		base, size, ok := clipToWindow(l.start, l.end, start, end, policy)
		if !ok {
			continue
		}
		out = append(out, memapi.NormalizedRegion{Base: base, Size: size})
	}
	return out, nil
}

func protectionMatches(have, required, excluded memapi.Protection) bool {
	if have&required != required {
		return false
	}
	if have&excluded != 0 {
		return false
	}
	return true
}

func typeAllowed(t memapi.RegionType, allowed []memapi.RegionType) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

// clipToWindow applies a [start, end) query window to a mapping's own
// [mstart, mend) range, honoring policy for a mapping that straddles an
// edge.
func clipToWindow(mstart, mend, start, end uint64, policy memapi.BoundsPolicy) (base, size uint64, ok bool) {
	if mend <= start || mstart >= end {
		return 0, 0, false
	}
	straddles := mstart < start || mend > end
	if straddles {
		switch policy {
		case memapi.BoundsExclude:
			return 0, 0, false
		case memapi.BoundsResize:
			if mstart < start {
				mstart = start
			}
			if mend > end {
				mend = end
			}
		case memapi.BoundsInclude:
			// keep the mapping's own full bounds
		}
	}
	return mstart, mend - mstart, true
}

// GetModules implements memapi.MemoryQueryer, reporting each file-backed
// path once, as one region spanning from the lowest start to the highest
// end of all of that path's mappings.
func (r *Reader) GetModules(_ context.Context, proc memapi.ProcessHandle) ([]memapi.NormalizedModule, error) {
	lines, err := readMaps(proc.PID())
	if err != nil {
		return nil, fmt.Errorf("read /proc/%d/maps: %w", proc.PID(), err)
	}

	seen := make(map[string]*memapi.NormalizedModule)
	var order []string
	for _, l := range lines {
		if l.pathname == "" || strings.HasPrefix(l.pathname, "[") {
			continue
		}
		m, ok := seen[l.pathname]
		if !ok {
			m = &memapi.NormalizedModule{Name: l.pathname, Region: memapi.NormalizedRegion{Base: l.start, Size: l.end - l.start}}
			seen[l.pathname] = m
			order = append(order, l.pathname)
			continue
		}
		if l.start < m.Region.Base {
			m.Region.Size += m.Region.Base - l.start
			m.Region.Base = l.start
		}
		if l.end > m.Region.End() {
			m.Region.Size = l.end - m.Region.Base
		}
	}

	out := make([]memapi.NormalizedModule, 0, len(order))
	for _, name := range order {
		out = append(out, *seen[name])
	}
	return out, nil
}

// GetMaxUsermodeAddress implements memapi.MemoryQueryer. On linux/amd64
// user-mode addresses stay below the canonical-address split; 47 bits of
// address space is the documented limit for a process without the
// five-level paging opt-in.
func (r *Reader) GetMaxUsermodeAddress(_ context.Context, proc memapi.ProcessHandle) (uint64, error) {
	return 1<<47 - 1, nil
}
