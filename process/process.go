// Package process provides typed, fallible access to the memory of a process
// the splitter has attached to.
//
// The runtime only speaks in raw bytes and status codes, so everything here
// boils down to three boundary calls: attach, detach and read. The package's
// job is to make sure raw bytes never become Go values unless the runtime
// confirmed the read, and that every successful attach is paired with exactly
// one detach.
package process

import (
	"errors"
	"fmt"

	"github.com/P1n3appl3/livesplit-wrapper/host"
)

// Address is an offset into the attached process's address space. Attaching
// to a 32-bit process is fine; reads outside its real address space simply
// fail at the boundary like any other bad read.
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("0x%X", uint64(a))
}

var (
	// ErrReadFailed is returned when the runtime reports a failed memory
	// read. This is a routine condition, it usually means the process state
	// doesn't match what the caller expected right now. Reads are never
	// retried internally; retry policy belongs to the caller.
	ErrReadFailed = errors.New("memory read failed")

	// ErrProcessClosed is returned when an operation is attempted after
	// Close.
	ErrProcessClosed = errors.New("process closed")

	// ErrStringTooLong is returned by ReadCString when no terminator shows
	// up within the supported length. It usually means the address doesn't
	// actually hold a C string.
	ErrStringTooLong = errors.New("no string terminator within 255 bytes")
)

// Process owns the handle for one attached process. The handle is released
// by Close; pair every successful Attach with exactly one Close, typically
// via defer, so the runtime gets its detach on every exit path.
type Process struct {
	bridge host.Bridge
	handle uint64
}

// Attach asks the runtime to resolve a running process by name. A false
// result means no such process was found, which is an expected outcome
// rather than an error; try again on a later tick.
func Attach(b host.Bridge, name string) (*Process, bool) {
	h := b.AttachProcess(name)
	if h == 0 {
		return nil, false
	}
	return &Process{bridge: b, handle: h}, true
}

// Module resolves a loaded module's base address by name. A false result
// means the module isn't loaded, which is routine early in a process's life.
func (p *Process) Module(name string) (Address, bool) {
	if p.handle == 0 {
		return 0, false
	}
	addr := p.bridge.ModuleAddress(p.handle, name)
	if addr == 0 {
		return 0, false
	}
	return Address(addr), true
}

// ReadInto fills buf from the attached process starting at addr. Exactly
// len(buf) bytes are requested. On failure the contents of buf are
// unspecified and must not be interpreted.
func (p *Process) ReadInto(addr Address, buf []byte) error {
	if p.handle == 0 {
		return ErrProcessClosed
	}
	if !p.bridge.ReadMemory(p.handle, uint64(addr), buf) {
		return ErrReadFailed
	}
	return nil
}

// Close detaches from the process. Only the first call reaches the runtime;
// further calls are no-ops.
func (p *Process) Close() error {
	if p.handle != 0 {
		p.bridge.DetachProcess(p.handle)
		p.handle = 0
	}
	return nil
}
