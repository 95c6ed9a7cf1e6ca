package process_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/P1n3appl3/livesplit-wrapper/process"
	"github.com/P1n3appl3/livesplit-wrapper/sim"
)

// stringImage maps s plus arbitrary trailing garbage at base, padded large
// enough that a bounded 255-byte read stays inside the region.
func stringImage(t *testing.T, base uint64, raw []byte) *sim.Host {
	t.Helper()
	mem := make([]byte, 512)
	for i := range mem {
		mem[i] = 0xA5 // garbage, deliberately not NUL
	}
	copy(mem, raw)
	img := sim.NewImage()
	img.Map(base, mem)
	h := sim.NewHost()
	h.AddProcess("game.exe", img)
	return h
}

func TestReadCString(t *testing.T) {
	h := stringImage(t, 0x1000, []byte("OK\x00trailing junk"))
	p, _ := process.Attach(h, "game.exe")
	defer p.Close()

	got, err := p.ReadCString(0x1000)
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	if got != "OK" {
		t.Errorf("ReadCString = %q, want %q", got, "OK")
	}
}

func TestReadCStringEmpty(t *testing.T) {
	h := stringImage(t, 0x1000, []byte{0})
	p, _ := process.Attach(h, "game.exe")
	defer p.Close()

	got, err := p.ReadCString(0x1000)
	if err != nil || got != "" {
		t.Fatalf("ReadCString = %q, %v; want empty string", got, err)
	}
}

func TestReadCStringMaxLength(t *testing.T) {
	raw := append([]byte(strings.Repeat("a", 254)), 0)
	h := stringImage(t, 0x1000, raw)
	p, _ := process.Attach(h, "game.exe")
	defer p.Close()

	got, err := p.ReadCString(0x1000)
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	if len(got) != 254 {
		t.Errorf("len = %d, want 254", len(got))
	}
}

func TestReadCStringUnterminated(t *testing.T) {
	// 512 bytes of garbage with no NUL anywhere in the first 255.
	h := stringImage(t, 0x1000, nil)
	p, _ := process.Attach(h, "game.exe")
	defer p.Close()

	_, err := p.ReadCString(0x1000)
	if !errors.Is(err, process.ErrStringTooLong) {
		t.Fatalf("err = %v, want ErrStringTooLong", err)
	}
}

func TestReadCStringLossyDecode(t *testing.T) {
	h := stringImage(t, 0x1000, []byte{0xFF, 'h', 'i', 0})
	p, _ := process.Attach(h, "game.exe")
	defer p.Close()

	got, err := p.ReadCString(0x1000)
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	if got != "�hi" {
		t.Errorf("ReadCString = %q, want %q", got, "�hi")
	}
}

func TestReadCStringReadFailure(t *testing.T) {
	h := sim.NewHost()
	h.AddProcess("game.exe", sim.NewImage())
	p, _ := process.Attach(h, "game.exe")
	defer p.Close()

	_, err := p.ReadCString(0x1000)
	if !errors.Is(err, process.ErrReadFailed) {
		t.Fatalf("err = %v, want ErrReadFailed", err)
	}
}
