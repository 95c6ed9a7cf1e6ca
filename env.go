package livesplit

import (
	"time"

	"go.uber.org/zap"

	"github.com/P1n3appl3/livesplit-wrapper/host"
	"github.com/P1n3appl3/livesplit-wrapper/process"
)

// Env is the splitter's view of the host runtime: the timer operations, the
// logger, and the door to process memory. One Env is built on the first
// tick and handed to the splitter on every call; there is no other way to
// reach the boundary.
//
// All timer operations are fire-and-forget pass-throughs to single boundary
// calls. Only State returns anything.
type Env struct {
	bridge host.Bridge
	log    *zap.Logger
}

// NewEnv builds an Env over a bridge. The driver does this for registered
// splitters; tests and harnesses can call it directly with a sim host.
func NewEnv(b host.Bridge) *Env {
	return &Env{bridge: b, log: NewLogger(b)}
}

// Log returns the logger wired to the runtime's message channel. Debug
// entries are suppressed; info, warn and error are delivered.
func (e *Env) Log() *zap.Logger { return e.log }

// Attach resolves a running process by name. A false result means the
// process isn't there yet; attach again on a later tick. Close the returned
// process when done with it.
func (e *Env) Attach(name string) (*process.Process, bool) {
	return process.Attach(e.bridge, name)
}

// Start starts the timer for a run. The runtime silently ignores it while a
// run is already going; to begin a new run call Reset and then Start.
func (e *Env) Start() { e.bridge.StartTimer() }

// Split marks the current split as finished and moves to the next one.
func (e *Env) Split() { e.bridge.SplitTimer() }

// Reset resets the run. Be conservative about calling this automatically;
// common practice is to reset only on an unambiguous signal that the player
// abandoned the run.
func (e *Env) Reset() { e.bridge.ResetTimer() }

// PauseGameTime stops the game-time counter, typically on a loading screen
// for games timed in-game rather than in real time. Consider calling
// SetGameTime right after so the counter shows the exact current time.
func (e *Env) PauseGameTime() { e.bridge.PauseGameTime() }

// ResumeGameTime resumes the game-time counter.
func (e *Env) ResumeGameTime() { e.bridge.ResumeGameTime() }

// SetGameTime sets the game-time counter. If game time isn't paused the
// counter keeps advancing from the given value immediately.
func (e *Env) SetGameTime(d time.Duration) {
	e.bridge.SetGameTime(int64(d/time.Second), int32(d%time.Second))
}

// SetTickRate sets how often the runtime calls the splitter's Update, in Hz.
func (e *Env) SetTickRate(hz float64) { e.bridge.SetTickRate(hz) }

// SetVariable sets a key/value pair LiveSplit can display, commonly used
// for things like death counters.
func (e *Env) SetVariable(key, value string) { e.bridge.SetVariable(key, value) }

// State reports the timer's current phase. This is how a splitter detects
// that the player manually paused or reset the run.
func (e *Env) State() TimerState {
	return timerStateFromHost(e.bridge.TimerState())
}
