// Package sim is an in-process stand-in for the LiveSplit auto-splitter
// runtime.
//
// Host implements the full boundary (host.Bridge) with a scripted timer,
// display variables and attachable memory sources, so splitter logic can be
// unit-tested without LiveSplit, and whole compiled splitters can be driven
// natively via cmd/splitsim. Memory sources are either scripted images
// (Image) or, on linux and windows, live local processes (Local).
package sim

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/P1n3appl3/livesplit-wrapper/host"
)

// Timer phases as the runtime reports them over the boundary.
const (
	PhaseNotRunning uint32 = iota
	PhaseRunning
	PhasePaused
	PhaseEnded
)

// Memory is one attachable process image.
type Memory interface {
	// ReadAt fills buf from addr, reporting false if any requested byte is
	// not readable.
	ReadAt(addr uint64, buf []byte) bool

	// Module resolves a loaded module's base address by name.
	Module(name string) (uint64, bool)
}

// Host simulates the runtime side of the boundary. Use NewHost; the zero
// value is not usable.
//
// Host is internally locked: direct calls from a test and boundary calls
// arriving through a wazero guest may land on different goroutines.
type Host struct {
	mu sync.Mutex

	sources map[string]Memory
	handles map[uint64]Memory
	next    uint64

	phase          uint32
	splits         int
	gameTime       time.Duration
	gameTimePaused bool
	tickRate       float64
	vars           map[string]string
	messages       []string

	attaches map[string]int
	detaches int

	// Output, when set, additionally receives every printed message with a
	// trailing newline.
	Output io.Writer
}

func NewHost() *Host {
	return &Host{
		sources:  make(map[string]Memory),
		handles:  make(map[uint64]Memory),
		next:     1,
		tickRate: 120,
		vars:     make(map[string]string),
		attaches: make(map[string]int),
	}
}

var _ host.Bridge = (*Host)(nil)

// AddProcess makes a memory source attachable under name.
func (h *Host) AddProcess(name string, m Memory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sources[name] = m
}

// KillProcess simulates the named process exiting: it can no longer be
// attached, and reads through handles already held on it fail. The handles
// themselves stay live until detached, as with a real process death.
func (h *Host) KillProcess(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.sources[name]
	if !ok {
		return
	}
	delete(h.sources, name)
	for handle, src := range h.handles {
		if src == m {
			h.handles[handle] = nil
		}
	}
}

func (h *Host) AttachProcess(name string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.sources[name]
	if !ok {
		return 0
	}
	handle := h.next
	h.next++
	h.handles[handle] = m
	h.attaches[name]++
	return handle
}

func (h *Host) DetachProcess(handle uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.handles[handle]; ok {
		delete(h.handles, handle)
		h.detaches++
	}
}

func (h *Host) ModuleAddress(handle uint64, name string) uint64 {
	h.mu.Lock()
	m := h.handles[handle]
	h.mu.Unlock()
	if m == nil {
		return 0
	}
	addr, ok := m.Module(name)
	if !ok {
		return 0
	}
	return addr
}

func (h *Host) ReadMemory(handle uint64, addr uint64, buf []byte) bool {
	h.mu.Lock()
	m := h.handles[handle]
	h.mu.Unlock()
	if m == nil {
		return false
	}
	return m.ReadAt(addr, buf)
}

func (h *Host) PrintMessage(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
	if h.Output != nil {
		fmt.Fprintln(h.Output, msg)
	}
}

func (h *Host) SetTickRate(hz float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hz > 0 {
		h.tickRate = hz
	}
}

func (h *Host) StartTimer() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.phase == PhaseNotRunning {
		h.phase = PhaseRunning
	}
}

func (h *Host) SplitTimer() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.phase == PhaseRunning {
		h.splits++
	}
}

func (h *Host) ResetTimer() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.phase = PhaseNotRunning
	h.splits = 0
	h.gameTime = 0
	h.gameTimePaused = false
}

func (h *Host) PauseGameTime() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gameTimePaused = true
}

func (h *Host) ResumeGameTime() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gameTimePaused = false
}

func (h *Host) SetGameTime(seconds int64, nanos int32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gameTime = time.Duration(seconds)*time.Second + time.Duration(nanos)
}

func (h *Host) SetVariable(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.vars[key] = value
}

func (h *Host) TimerState() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

// Phase reports the simulated timer phase.
func (h *Host) Phase() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

// SetPhase forces the timer phase, simulating actions the splitter cannot
// take itself, like the player pausing manually or a run completing.
func (h *Host) SetPhase(p uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.phase = p
}

// Splits reports how many splits landed while the timer was running.
func (h *Host) Splits() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.splits
}

// GameTime reports the last game time the splitter set.
func (h *Host) GameTime() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gameTime
}

// GameTimePaused reports whether game-time accumulation is paused.
func (h *Host) GameTimePaused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gameTimePaused
}

// TickRate reports the current update frequency in Hz.
func (h *Host) TickRate() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tickRate
}

// Variable reports the current value of a display variable.
func (h *Host) Variable(key string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.vars[key]
}

// Messages returns a copy of every line printed so far.
func (h *Host) Messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.messages))
	copy(out, h.messages)
	return out
}

// Attaches reports how many successful attaches were issued for name.
func (h *Host) Attaches(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attaches[name]
}

// Detaches reports how many handles were released.
func (h *Host) Detaches() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.detaches
}
