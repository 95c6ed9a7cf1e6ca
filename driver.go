package livesplit

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/P1n3appl3/livesplit-wrapper/host"
)

// Splitter is the consumer's logic. Update is called once per tick with the
// same Env each time; nothing else is required of the type.
type Splitter interface {
	Update(env *Env)
}

// Driver owns the per-tick state for one splitter: the Env, the lazily
// constructed Splitter, and the recovery barrier that keeps a panicking
// splitter from unwinding into the host.
//
// The runtime invokes ticks strictly one at a time, so no locking is needed
// under that contract; the mutex is there in case a host ever breaks it.
type Driver struct {
	mu        sync.Mutex
	bridge    host.Bridge
	construct func(*Env) Splitter
	env       *Env
	splitter  Splitter
	setup     sync.Once
}

// NewDriver builds a driver that will construct the splitter with construct
// on the first tick that reaches it. Nothing touches the bridge until the
// first Tick.
func NewDriver(b host.Bridge, construct func(*Env) Splitter) *Driver {
	return &Driver{bridge: b, construct: construct}
}

// Tick runs one update cycle.
//
// The first call builds the Env and with it the diagnostics bridge; repeats
// are no-ops. The splitter is constructed lazily, so a constructor that
// panics leaves it unconstructed and the next tick tries again. Any panic
// out of construction or Update is caught here, reported through the logger
// with its source location, and dropped: above this point there is nobody
// left to catch it, and the host just keeps ticking.
func (d *Driver) Tick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setup.Do(func() {
		d.env = NewEnv(d.bridge)
	})
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if file, line, ok := panicSite(); ok {
			d.env.Log().Error(fmt.Sprintf("panic in file '%s' at line %d: %v", file, line, r))
		} else {
			d.env.Log().Error(fmt.Sprintf("panic with no location information: %v", r))
		}
	}()
	if d.splitter == nil {
		d.splitter = d.construct(d.env)
	}
	d.splitter.Update(d.env)
}

// panicSite walks the stack of an in-flight panic and returns the first
// frame outside the runtime, i.e. the place that panicked. Must be called
// from within the recovery deferral.
func panicSite() (file string, line int, ok bool) {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	seenPanic := false
	for {
		f, more := frames.Next()
		if strings.HasPrefix(f.Function, "runtime.") {
			if f.Function == "runtime.gopanic" {
				seenPanic = true
			}
		} else if seenPanic && f.File != "" {
			return f.File, f.Line, true
		}
		if !more {
			return "", 0, false
		}
	}
}
