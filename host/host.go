// Package host defines the boundary between an auto-splitter and the
// LiveSplit runtime that executes it.
//
// Everything the splitter can observe or affect outside its own sandbox goes
// through the Bridge interface: a fixed set of synchronous primitives that
// speak only in numeric handles, flat byte buffers and integer status codes.
// Inside the runtime the bridge is backed by wasm imports (see Runtime);
// everywhere else any implementation will do, which is what the sim package
// provides for tests and native harnesses.
package host

// Bridge is the set of primitives the auto-splitter runtime supplies.
//
// All calls are synchronous and complete before returning; there is no
// cancellation. Handles and addresses are opaque to this layer, the runtime
// is the sole arbiter of their validity.
type Bridge interface {
	// AttachProcess resolves a running process by name and returns a handle
	// for it, or 0 if no such process was found.
	AttachProcess(name string) uint64

	// DetachProcess releases a handle obtained from AttachProcess.
	DetachProcess(handle uint64)

	// ModuleAddress returns the base address of a module loaded by the
	// attached process, or 0 if the module is not loaded.
	ModuleAddress(handle uint64, name string) uint64

	// ReadMemory copies exactly len(buf) bytes of the attached process's
	// memory starting at addr into buf. It reports false when the runtime
	// could not complete the read, in which case buf holds garbage.
	ReadMemory(handle uint64, addr uint64, buf []byte) bool

	// PrintMessage delivers one log line to the runtime. Delivery is
	// best-effort; there is no way to observe a failed send.
	PrintMessage(msg string)

	// SetTickRate sets how often the runtime invokes the update entry
	// point, in Hz.
	SetTickRate(hz float64)

	// StartTimer starts the run. The runtime ignores it while a run is
	// already going.
	StartTimer()

	// SplitTimer finishes the current split and moves to the next one.
	SplitTimer()

	// ResetTimer resets the run.
	ResetTimer()

	// PauseGameTime stops game-time accumulation.
	PauseGameTime()

	// ResumeGameTime resumes game-time accumulation.
	ResumeGameTime()

	// SetGameTime sets the game-time counter, split into whole seconds and
	// the sub-second remainder in nanoseconds.
	SetGameTime(seconds int64, nanos int32)

	// SetVariable sets a key/value pair the timer can display.
	SetVariable(key, value string)

	// TimerState returns the timer phase as an integer. The documented
	// range is 0 through 3; callers should treat anything else as unknown.
	TimerState() uint32
}
