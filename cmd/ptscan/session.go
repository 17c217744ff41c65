// The ptscan command is a thin CLI front end over the scanning engine: it
// attaches to a pid, reads its virtual memory, and narrows a snapshot's
// filters one ScanCompareType at a time. Run "ptscan help" for usage.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/internal/logutil"
	"github.com/ptscan/ptscan/internal/procmem"
	"github.com/ptscan/ptscan/memapi"
	"github.com/ptscan/ptscan/scanning"
	"github.com/ptscan/ptscan/snapshot"
)

// session holds everything one attached target needs: the process
// handle, its memory reader/queryer, the current snapshot, and the
// dispatcher that narrows it. The one-shot subcommands (scan, read) each
// build their own short-lived session; "interactive" keeps one alive in
// the package-level `current` for its whole REPL lifetime so rescan and
// filters can act on the snapshot a prior scan built.
type session struct {
	log *logutil.Logger

	reader *procmem.Reader
	proc   *procmem.Handle

	snap       *snapshot.Snapshot
	dispatcher *scanning.Dispatcher
	reg        *datatype.Registry
}

var current *session

func newSession() *session {
	log := logutil.Default("ptscan")
	reg := datatype.Default
	return &session{
		log:        log,
		reg:        reg,
		dispatcher: newDispatcher(reg, log),
	}
}

func newDispatcher(reg *datatype.Registry, log *logutil.Logger) *scanning.Dispatcher {
	d := scanning.NewDispatcher(reg, log)
	if w := scanning.DetectMaxVectorWidth(); w > 0 {
		d.MaxVectorWidth = w
	}
	return d
}

func (s *session) attach(ctx context.Context, pid int) error {
	s.reader = procmem.New()
	proc, err := s.reader.Attach(pid)
	if err != nil {
		return fmt.Errorf("attach to pid %d: %w", pid, err)
	}
	s.proc = proc

	pages, err := s.reader.GetVirtualPages(ctx, proc, memapi.ProtRead, memapi.ProtNone, nil, 0, ^uint64(0), memapi.BoundsInclude)
	if err != nil {
		return fmt.Errorf("enumerate virtual pages of pid %d: %w", pid, err)
	}

	s.snap = snapshot.New(pages, nil)
	return nil
}

func (s *session) refresh(ctx context.Context) {
	rdr := scanning.NewReader(s.reader, s.log)
	for _, region := range s.snap.Regions {
		rdr.RefreshRegion(ctx, s.proc, region)
	}
}

func exitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
