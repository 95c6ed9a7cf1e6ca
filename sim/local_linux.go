//go:build linux

package sim

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unsafe"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/unix"
)

// Local exposes a live local process as a Memory source, reading it with
// the process_vm_readv syscall. Requires CAP_SYS_PTRACE or a same-uid
// target, subject to the system's ptrace_scope policy.
type Local struct {
	pid int
	log *logger.Logger

	mu   sync.Mutex
	maps []mapRegion
}

type mapRegion struct {
	start, end uint64
	perms      string
	path       string
}

// OpenLocal attaches to the lowest-PID process whose comm or exe basename
// equals name. The match is case-sensitive, like pidof.
func OpenLocal(name string) (*Local, error) {
	pid, err := pidByName(name)
	if err != nil {
		return nil, err
	}
	return OpenLocalPID(pid)
}

// OpenLocalPID attaches to a process by PID.
func OpenLocalPID(pid int) (*Local, error) {
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err != nil {
		return nil, fmt.Errorf("process with PID %d does not exist", pid)
	}
	l := &Local{
		pid: pid,
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid))),
	}
	if err := l.Refresh(); err != nil {
		return nil, fmt.Errorf("failed to read memory map: %w", err)
	}
	l.log.Infoln("Process opened")
	return l, nil
}

// PID returns the attached process ID.
func (l *Local) PID() int { return l.pid }

// Close releases the source. There is no kernel handle to free; it exists
// so harness code can treat all sources uniformly.
func (l *Local) Close() error {
	l.log.Infoln("Process closed")
	return nil
}

// Refresh re-reads /proc/<pid>/maps. Call it when the target loads or
// unloads libraries; reads validate against the map captured here.
func (l *Local) Refresh() error {
	file, err := os.Open(fmt.Sprintf("/proc/%d/maps", l.pid))
	if err != nil {
		return err
	}
	defer file.Close()

	var maps []mapRegion
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		addrRange := strings.Split(fields[0], "-")
		if len(addrRange) != 2 {
			continue
		}
		start, err := strconv.ParseUint(addrRange[0], 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(addrRange[1], 16, 64)
		if err != nil {
			continue
		}
		r := mapRegion{start: start, end: end, perms: fields[1]}
		if len(fields) >= 6 {
			r.path = fields[5]
		}
		maps = append(maps, r)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	sort.Slice(maps, func(i, j int) bool { return maps[i].start < maps[j].start })

	l.mu.Lock()
	l.maps = maps
	l.mu.Unlock()
	return nil
}

func (l *Local) readable(addr, n uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.maps {
		if addr >= r.start && addr+n <= r.end {
			return len(r.perms) > 0 && r.perms[0] == 'r'
		}
	}
	return false
}

func (l *Local) ReadAt(addr uint64, buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	if !l.readable(addr, uint64(len(buf))) {
		return false
	}
	if err := vmRead(l.pid, addr, buf); err != nil {
		l.log.Debugln("Failed to read memory at", fmt.Sprintf("%x", addr), err)
		return false
	}
	return true
}

// Module resolves a module base as the lowest mapping whose file basename
// equals name.
func (l *Local) Module(name string) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.maps {
		if r.path != "" && filepath.Base(r.path) == name {
			return r.start, true
		}
	}
	return 0, false
}

// vmRead reads the target's memory with the process_vm_readv syscall.
func vmRead(pid int, addr uint64, buf []byte) error {
	localIov := unix.Iovec{
		Base: &buf[0],
		Len:  uint64(len(buf)),
	}
	remoteIov := unix.RemoteIovec{
		Base: uintptr(addr),
		Len:  len(buf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_READV,
		uintptr(pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)
	if errno != 0 {
		return fmt.Errorf("process_vm_readv failed: %s (errno: %d)", errno.Error(), int(errno))
	}
	if int(n) != len(buf) {
		return fmt.Errorf("partial read: %d of %d bytes", n, len(buf))
	}
	return nil
}

// pidByName scans /proc for processes whose comm or exe basename equals
// name and returns the lowest matching PID for determinism.
func pidByName(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty process name")
	}
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return 0, fmt.Errorf("read /proc: %w", err)
	}

	selfPID := os.Getpid()
	best := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 || pid == selfPID {
			continue
		}

		comm, _ := os.ReadFile(filepath.Join("/proc", e.Name(), "comm"))
		match := strings.TrimSpace(string(comm)) == name
		if !match {
			// Zombies and cross-uid targets may refuse the exe readlink.
			exe, _ := os.Readlink(filepath.Join("/proc", e.Name(), "exe"))
			match = exe != "" && filepath.Base(exe) == name
		}
		if match && (best == 0 || pid < best) {
			best = pid
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("no process named %q: %w", name, os.ErrNotExist)
	}
	return best, nil
}
