//go:build linux

// Package procmem implements memapi.MemoryReader and memapi.MemoryQueryer
// for a live Linux process via ptrace and /proc/<pid>/maps. It is the
// engine's one concrete OS collaborator; everything upstream of it only
// ever talks to the memapi interfaces.
package procmem

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/ptscan/ptscan/memapi"
)

// Handle identifies a ptrace-attached process.
type Handle struct {
	pid int
}

// PID implements memapi.ProcessHandle.
func (h *Handle) PID() int { return h.pid }

// Reader is a memapi.MemoryReader and memapi.MemoryQueryer backed by
// ptrace. Every ptrace syscall for a given Reader runs on the same,
// dedicated OS thread: Linux requires the tracer to be the thread that
// attached.
type Reader struct {
	fc chan func() error
	ec chan error
}

// New starts the dedicated ptrace thread and returns a Reader bound to
// it. Callers should keep exactly one Reader per traced process group.
func New() *Reader {
	r := &Reader{fc: make(chan func() error), ec: make(chan error)}
	go r.loop()
	return r
}

func (r *Reader) loop() {
	runtime.LockOSThread()
	for f := range r.fc {
		r.ec <- f()
	}
}

func (r *Reader) do(f func() error) error {
	r.fc <- f
	return <-r.ec
}

// Attach ptrace-attaches to pid and waits for the resulting stop.
func (r *Reader) Attach(pid int) (*Handle, error) {
	if err := r.do(func() error { return unix.PtraceAttach(pid) }); err != nil {
		return nil, fmt.Errorf("ptrace attach %d: %w", pid, err)
	}
	var ws unix.WaitStatus
	err := r.do(func() error {
		_, werr := unix.Wait4(pid, &ws, 0, nil)
		return werr
	})
	if err != nil {
		return nil, fmt.Errorf("wait for attach stop on %d: %w", pid, err)
	}
	return &Handle{pid: pid}, nil
}

// Detach releases the traced process, letting it run freely again.
func (r *Reader) Detach(h *Handle) error {
	return r.do(func() error { return unix.PtraceDetach(h.pid) })
}

// ReadBytes implements memapi.MemoryReader.
func (r *Reader) ReadBytes(_ context.Context, proc memapi.ProcessHandle, address uint64, buf []byte) bool {
	h, ok := proc.(*Handle)
	if !ok {
		return false
	}
	var n int
	err := r.do(func() error {
		var perr error
		n, perr = unix.PtracePeekData(h.pid, uintptr(address), buf)
		return perr
	})
	return err == nil && n == len(buf)
}
