package process_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/P1n3appl3/livesplit-wrapper/process"
	"github.com/P1n3appl3/livesplit-wrapper/sim"
)

func newGame(t *testing.T, mem []byte) (*sim.Host, *sim.Image) {
	t.Helper()
	img := sim.NewImage()
	img.MapModule("game.exe", 0x400000, mem)
	h := sim.NewHost()
	h.AddProcess("game.exe", img)
	return h, img
}

func TestAttachAbsent(t *testing.T) {
	h := sim.NewHost()
	if p, ok := process.Attach(h, "game.exe"); ok || p != nil {
		t.Fatalf("Attach found a process that does not exist: %v %v", p, ok)
	}
}

func TestAttachAndModule(t *testing.T) {
	h, _ := newGame(t, make([]byte, 64))
	p, ok := process.Attach(h, "game.exe")
	if !ok {
		t.Fatal("Attach failed")
	}
	defer p.Close()

	base, ok := p.Module("game.exe")
	if !ok {
		t.Fatal("Module not found")
	}
	if base != 0x400000 {
		t.Errorf("module base = %v, want 0x400000", base)
	}
	if _, ok := p.Module("missing.dll"); ok {
		t.Error("Module resolved a library that is not loaded")
	}
}

func TestReadIntoRoundTrip(t *testing.T) {
	mem := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04}
	h, _ := newGame(t, mem)
	p, ok := process.Attach(h, "game.exe")
	if !ok {
		t.Fatal("Attach failed")
	}
	defer p.Close()

	buf := make([]byte, 4)
	if err := p.ReadInto(0x400002, buf); err != nil {
		t.Fatalf("ReadInto: %v", err)
	}
	if want := []byte{0xBE, 0xEF, 0x01, 0x02}; !bytes.Equal(buf, want) {
		t.Errorf("read %x, want %x", buf, want)
	}
}

func TestReadIntoUnmappedFails(t *testing.T) {
	h, _ := newGame(t, make([]byte, 16))
	p, _ := process.Attach(h, "game.exe")
	defer p.Close()

	buf := make([]byte, 8)
	err := p.ReadInto(0xDEAD0000, buf)
	if !errors.Is(err, process.ErrReadFailed) {
		t.Fatalf("err = %v, want ErrReadFailed", err)
	}

	// A read that starts mapped but runs off the end must fail whole.
	err = p.ReadInto(0x40000C, buf)
	if !errors.Is(err, process.ErrReadFailed) {
		t.Fatalf("partially mapped read: err = %v, want ErrReadFailed", err)
	}
}

func TestCloseDetachesExactlyOnce(t *testing.T) {
	h, _ := newGame(t, make([]byte, 16))
	p, _ := process.Attach(h, "game.exe")

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if h.Detaches() != 1 {
		t.Fatalf("detaches = %d, want exactly 1", h.Detaches())
	}
}

func TestUseAfterClose(t *testing.T) {
	h, _ := newGame(t, make([]byte, 16))
	p, _ := process.Attach(h, "game.exe")
	p.Close()

	if err := p.ReadInto(0x400000, make([]byte, 4)); !errors.Is(err, process.ErrProcessClosed) {
		t.Errorf("ReadInto after Close: err = %v, want ErrProcessClosed", err)
	}
	if _, ok := p.Module("game.exe"); ok {
		t.Error("Module resolved through a closed process")
	}
}

func TestDetachOnErrorPath(t *testing.T) {
	h, _ := newGame(t, make([]byte, 16))

	// Simulates a splitter tick that attaches, hits a failed read and
	// bails out through its error path.
	func() {
		p, ok := process.Attach(h, "game.exe")
		if !ok {
			t.Fatal("Attach failed")
		}
		defer p.Close()
		if err := p.ReadInto(0xFFFF0000, make([]byte, 4)); err != nil {
			return
		}
		t.Fatal("expected read failure")
	}()

	if h.Detaches() != 1 {
		t.Fatalf("detaches = %d, want 1 on the error path", h.Detaches())
	}
}

func TestAddressString(t *testing.T) {
	if got := process.Address(0xDEADBEEF).String(); got != "0xDEADBEEF" {
		t.Errorf("Address.String() = %q", got)
	}
}
