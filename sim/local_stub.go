//go:build !linux && !windows

package sim

import "fmt"

// Local is unavailable on this platform; only scripted Images can be
// attached.
type Local struct{}

func OpenLocal(name string) (*Local, error) {
	return nil, fmt.Errorf("local process attach is not supported on this platform")
}

func OpenLocalPID(pid int) (*Local, error) {
	return nil, fmt.Errorf("local process attach is not supported on this platform")
}

func (l *Local) PID() int { return 0 }

func (l *Local) Close() error { return nil }

func (l *Local) ReadAt(addr uint64, buf []byte) bool { return false }

func (l *Local) Module(name string) (uint64, bool) { return 0, false }
