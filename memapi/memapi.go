// Package memapi defines the capability interfaces the scanning engine
// consumes from the outside world: reading and enumerating a target
// process's virtual memory. OS process/memory access is treated as an
// external collaborator kept out of the core engine; this package is
// only the interface surface. internal/procmem provides the one
// concrete, ptrace/procfs-backed implementation.
package memapi

import "context"

// Protection is a bitset of page protection flags.
type Protection uint8

const (
	ProtNone Protection = 0
	ProtRead Protection = 1 << iota
	ProtWrite
	ProtExecute
	ProtShared
	ProtCopyOnWrite
)

func (p Protection) Has(bit Protection) bool { return p&bit != 0 }

// RegionType classifies the kind of backing a virtual memory region has.
type RegionType uint8

const (
	RegionNone RegionType = iota
	RegionPrivate
	RegionImage
	RegionMapped
)

// BoundsPolicy controls how a query's [start, end) window is applied to
// regions that straddle the boundary.
type BoundsPolicy uint8

const (
	BoundsInclude BoundsPolicy = iota
	BoundsExclude
	BoundsResize
)

// NormalizedRegion is a contiguous, half-open virtual address range
// [Base, Base+Size). A Size of zero marks a region pending garbage
// collection; it is never otherwise meaningful on the wire from a
// MemoryQueryer.
type NormalizedRegion struct {
	Base uint64
	Size uint64
}

// End returns Base+Size.
func (r NormalizedRegion) End() uint64 { return r.Base + r.Size }

// Contains reports whether the half-open range [base, base+size) is fully
// inside r.
func (r NormalizedRegion) Contains(base, size uint64) bool {
	return base >= r.Base && base+size <= r.End()
}

// NormalizedModule describes one loaded module (executable or shared
// library) in the target's address space.
type NormalizedModule struct {
	Name   string
	Region NormalizedRegion
}

// ProcessHandle opaquely identifies an attached target process. Concrete
// implementations (internal/procmem) embed whatever OS resource (pid, an
// open ptrace attach, a process handle) it needs.
type ProcessHandle interface {
	PID() int
}

// MemoryReader reads bytes from a target process's address space.
type MemoryReader interface {
	// ReadBytes reads len(buf) bytes starting at address into buf. It
	// reports whether the full read succeeded; a false return must not
	// modify buf's surviving-success prefix beyond what was copied.
	ReadBytes(ctx context.Context, proc ProcessHandle, address uint64, buf []byte) bool
}

// MemoryQueryer enumerates a target process's virtual address space.
type MemoryQueryer interface {
	// GetVirtualPages returns the regions in [start, end) whose protection
	// includes every bit in requiredProtection, excludes every bit in
	// excludedProtection, and whose RegionType is in allowedTypes, after
	// applying policy to the query window's edges.
	GetVirtualPages(ctx context.Context, proc ProcessHandle, requiredProtection, excludedProtection Protection, allowedTypes []RegionType, start, end uint64, policy BoundsPolicy) ([]NormalizedRegion, error)

	// GetModules returns the modules loaded into proc's address space.
	GetModules(ctx context.Context, proc ProcessHandle) ([]NormalizedModule, error)

	// GetMaxUsermodeAddress returns the highest address a user-mode
	// mapping in proc could occupy.
	GetMaxUsermodeAddress(ctx context.Context, proc ProcessHandle) (uint64, error)
}
