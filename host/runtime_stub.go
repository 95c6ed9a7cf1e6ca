//go:build !wasip1

package host

import (
	"fmt"
	"os"
)

// Runtime returns a disconnected Bridge on platforms other than the wasm
// runtime, so splitter binaries still build and unit-test natively. Attaches
// find nothing, reads fail, timer operations are dropped, and printed
// messages go to stderr.
func Runtime() Bridge { return disconnected{} }

type disconnected struct{}

func (disconnected) AttachProcess(string) uint64 { return 0 }

func (disconnected) DetachProcess(uint64) {}

func (disconnected) ModuleAddress(uint64, string) uint64 { return 0 }

func (disconnected) ReadMemory(uint64, uint64, []byte) bool { return false }

func (disconnected) PrintMessage(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func (disconnected) SetTickRate(float64) {}

func (disconnected) StartTimer() {}

func (disconnected) SplitTimer() {}

func (disconnected) ResetTimer() {}

func (disconnected) PauseGameTime() {}

func (disconnected) ResumeGameTime() {}

func (disconnected) SetGameTime(int64, int32) {}

func (disconnected) SetVariable(string, string) {}

func (disconnected) TimerState() uint32 { return 0 }
