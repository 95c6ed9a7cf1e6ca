//go:build wasip1

package host

import "unsafe"

// Runtime returns the Bridge backed by the auto-splitter runtime's wasm
// imports.
func Runtime() Bridge { return wasmBridge{} }

type wasmBridge struct{}

// pad gives zero-length strings and buffers a stable address to hand across
// the boundary.
var pad byte

func strArg(s string) (unsafe.Pointer, uint32) {
	if len(s) == 0 {
		return unsafe.Pointer(&pad), 0
	}
	return unsafe.Pointer(unsafe.StringData(s)), uint32(len(s))
}

func (wasmBridge) AttachProcess(name string) uint64 {
	ptr, n := strArg(name)
	return processAttach(ptr, n)
}

func (wasmBridge) DetachProcess(handle uint64) {
	processDetach(handle)
}

func (wasmBridge) ModuleAddress(handle uint64, name string) uint64 {
	ptr, n := strArg(name)
	return processGetModuleAddress(handle, ptr, n)
}

func (wasmBridge) ReadMemory(handle uint64, addr uint64, buf []byte) bool {
	ptr := unsafe.Pointer(&pad)
	if len(buf) > 0 {
		ptr = unsafe.Pointer(&buf[0])
	}
	return processRead(handle, addr, ptr, uint32(len(buf))) != 0
}

func (wasmBridge) PrintMessage(msg string) {
	ptr, n := strArg(msg)
	runtimePrintMessage(ptr, n)
}

func (wasmBridge) SetTickRate(hz float64) {
	runtimeSetTickRate(hz)
}

func (wasmBridge) StartTimer() { timerStart() }

func (wasmBridge) SplitTimer() { timerSplit() }

func (wasmBridge) ResetTimer() { timerReset() }

func (wasmBridge) PauseGameTime() { timerPauseGameTime() }

func (wasmBridge) ResumeGameTime() { timerResumeGameTime() }

func (wasmBridge) SetGameTime(seconds int64, nanos int32) {
	timerSetGameTime(seconds, nanos)
}

func (wasmBridge) SetVariable(key, value string) {
	kptr, kn := strArg(key)
	vptr, vn := strArg(value)
	timerSetVariable(kptr, kn, vptr, vn)
}

func (wasmBridge) TimerState() uint32 { return timerGetState() }

//go:wasmimport env process_attach
func processAttach(ptr unsafe.Pointer, n uint32) uint64

//go:wasmimport env process_detach
func processDetach(handle uint64)

//go:wasmimport env process_get_module_address
func processGetModuleAddress(handle uint64, ptr unsafe.Pointer, n uint32) uint64

//go:wasmimport env process_read
func processRead(handle uint64, addr uint64, buf unsafe.Pointer, bufLen uint32) uint32

//go:wasmimport env runtime_print_message
func runtimePrintMessage(ptr unsafe.Pointer, n uint32)

//go:wasmimport env runtime_set_tick_rate
func runtimeSetTickRate(hz float64)

//go:wasmimport env timer_start
func timerStart()

//go:wasmimport env timer_split
func timerSplit()

//go:wasmimport env timer_reset
func timerReset()

//go:wasmimport env timer_set_variable
func timerSetVariable(key unsafe.Pointer, keyLen uint32, value unsafe.Pointer, valueLen uint32)

//go:wasmimport env timer_set_game_time
func timerSetGameTime(seconds int64, nanos int32)

//go:wasmimport env timer_pause_game_time
func timerPauseGameTime()

//go:wasmimport env timer_resume_game_time
func timerResumeGameTime()

//go:wasmimport env timer_get_state
func timerGetState() uint32
