//go:build windows

package sim

import (
	"fmt"
	"strings"
	"syscall"
	"unsafe"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

var (
	modkernel32          = syscall.NewLazyDLL("kernel32.dll")
	procOpenProcess      = modkernel32.NewProc("OpenProcess")
	procReadProcessMem   = modkernel32.NewProc("ReadProcessMemory")
	procCloseHandle      = modkernel32.NewProc("CloseHandle")
	procCreateSnapshot   = modkernel32.NewProc("CreateToolhelp32Snapshot")
	procProcess32FirstW  = modkernel32.NewProc("Process32FirstW")
	procProcess32NextW   = modkernel32.NewProc("Process32NextW")
	procModule32FirstW   = modkernel32.NewProc("Module32FirstW")
	procModule32NextW    = modkernel32.NewProc("Module32NextW")
)

const (
	processVMRead           = 0x0010
	processQueryInformation = 0x0400

	th32csSnapProcess  = 0x00000002
	th32csSnapModule   = 0x00000008
	th32csSnapModule32 = 0x00000010

	invalidHandleValue = ^uintptr(0)
	maxPath            = 260
)

type processEntry32 struct {
	Size            uint32
	CntUsage        uint32
	ProcessID       uint32
	DefaultHeapID   uintptr
	ModuleID        uint32
	CntThreads      uint32
	ParentProcessID uint32
	PriClassBase    int32
	Flags           uint32
	ExeFile         [maxPath]uint16
}

type moduleEntry32 struct {
	Size         uint32
	ModuleID     uint32
	ProcessID    uint32
	GlblcntUsage uint32
	ProccntUsage uint32
	ModBaseAddr  uintptr
	ModBaseSize  uint32
	ModuleHandle uintptr
	Module       [256]uint16
	ExePath     [maxPath]uint16
}

// Local exposes a live local process as a Memory source, reading it with
// ReadProcessMemory.
type Local struct {
	pid    int
	handle syscall.Handle
	log    *logger.Logger
}

// OpenLocal attaches to the lowest-PID process whose executable name equals
// name, compared case-insensitively as Windows does.
func OpenLocal(name string) (*Local, error) {
	pid, err := pidByName(name)
	if err != nil {
		return nil, err
	}
	return OpenLocalPID(pid)
}

// OpenLocalPID attaches to a process by PID.
func OpenLocalPID(pid int) (*Local, error) {
	handle, _, err := procOpenProcess.Call(
		uintptr(processVMRead|processQueryInformation),
		0,
		uintptr(pid),
	)
	if handle == 0 {
		return nil, fmt.Errorf("OpenProcess failed: %v", err)
	}
	l := &Local{
		pid:    pid,
		handle: syscall.Handle(handle),
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid))),
	}
	l.log.Infoln("Process opened")
	return l, nil
}

// PID returns the attached process ID.
func (l *Local) PID() int { return l.pid }

// Close releases the process handle.
func (l *Local) Close() error {
	if l.handle != 0 {
		procCloseHandle.Call(uintptr(l.handle))
		l.handle = 0
		l.log.Infoln("Process closed")
	}
	return nil
}

func (l *Local) ReadAt(addr uint64, buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	if l.handle == 0 {
		return false
	}
	var read uintptr
	ret, _, _ := procReadProcessMem.Call(
		uintptr(l.handle),
		uintptr(addr),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&read)),
	)
	return ret != 0 && read == uintptr(len(buf))
}

// Module resolves a module base from a Toolhelp module snapshot, matching
// the module name case-insensitively.
func (l *Local) Module(name string) (uint64, bool) {
	snap, _, _ := procCreateSnapshot.Call(
		uintptr(th32csSnapModule|th32csSnapModule32),
		uintptr(l.pid),
	)
	if snap == invalidHandleValue {
		return 0, false
	}
	defer procCloseHandle.Call(snap)

	var entry moduleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	ret, _, _ := procModule32FirstW.Call(snap, uintptr(unsafe.Pointer(&entry)))
	for ret != 0 {
		mod := syscall.UTF16ToString(entry.Module[:])
		if strings.EqualFold(mod, name) {
			return uint64(entry.ModBaseAddr), true
		}
		ret, _, _ = procModule32NextW.Call(snap, uintptr(unsafe.Pointer(&entry)))
	}
	return 0, false
}

// pidByName walks a Toolhelp process snapshot and returns the lowest PID
// whose executable name matches.
func pidByName(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty process name")
	}
	snap, _, err := procCreateSnapshot.Call(uintptr(th32csSnapProcess), 0)
	if snap == invalidHandleValue {
		return 0, fmt.Errorf("CreateToolhelp32Snapshot failed: %v", err)
	}
	defer procCloseHandle.Call(snap)

	var entry processEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	best := 0
	ret, _, _ := procProcess32FirstW.Call(snap, uintptr(unsafe.Pointer(&entry)))
	for ret != 0 {
		exe := syscall.UTF16ToString(entry.ExeFile[:])
		if strings.EqualFold(exe, name) {
			pid := int(entry.ProcessID)
			if best == 0 || pid < best {
				best = pid
			}
		}
		ret, _, _ = procProcess32NextW.Call(snap, uintptr(unsafe.Pointer(&entry)))
	}
	if best == 0 {
		return 0, fmt.Errorf("no process named %q", name)
	}
	return best, nil
}
