package sim_test

import (
	"strings"
	"testing"
	"time"

	"github.com/P1n3appl3/livesplit-wrapper/sim"
)

func TestAttachLifecycle(t *testing.T) {
	h := sim.NewHost()

	if got := h.AttachProcess("missing.exe"); got != 0 {
		t.Errorf("attach to unknown process = %d, want 0", got)
	}

	img := sim.NewImage()
	img.Map(0x1000, []byte{1, 2, 3, 4})
	h.AddProcess("game.exe", img)

	h1 := h.AttachProcess("game.exe")
	h2 := h.AttachProcess("game.exe")
	if h1 == 0 || h2 == 0 {
		t.Fatalf("attach failed: %d, %d", h1, h2)
	}
	if h1 == h2 {
		t.Errorf("two attaches shared handle %d", h1)
	}
	if got := h.Attaches("game.exe"); got != 2 {
		t.Errorf("Attaches = %d, want 2", got)
	}

	h.DetachProcess(h1)
	h.DetachProcess(h1)
	if got := h.Detaches(); got != 1 {
		t.Errorf("Detaches after double detach of one handle = %d, want 1", got)
	}

	buf := make([]byte, 2)
	if h.ReadMemory(h1, 0x1000, buf) {
		t.Error("read through detached handle succeeded")
	}
	if !h.ReadMemory(h2, 0x1000, buf) {
		t.Error("read through live handle failed")
	}
}

func TestKillProcess(t *testing.T) {
	img := sim.NewImage()
	img.Map(0x1000, []byte{1, 2, 3, 4})
	h := sim.NewHost()
	h.AddProcess("game.exe", img)

	handle := h.AttachProcess("game.exe")
	h.KillProcess("game.exe")

	if h.AttachProcess("game.exe") != 0 {
		t.Error("attached to a killed process")
	}
	if h.ReadMemory(handle, 0x1000, make([]byte, 1)) {
		t.Error("read from killed process succeeded")
	}
	if h.ModuleAddress(handle, "game.exe") != 0 {
		t.Error("module lookup on killed process succeeded")
	}

	// The stale handle still detaches cleanly.
	h.DetachProcess(handle)
	if got := h.Detaches(); got != 1 {
		t.Errorf("Detaches = %d, want 1", got)
	}
}

func TestTimerPhases(t *testing.T) {
	h := sim.NewHost()

	if got := h.TimerState(); got != sim.PhaseNotRunning {
		t.Fatalf("initial state = %d", got)
	}

	// Split and reset before start do nothing.
	h.SplitTimer()
	if h.Splits() != 0 {
		t.Error("split counted before start")
	}

	h.StartTimer()
	if got := h.TimerState(); got != sim.PhaseRunning {
		t.Fatalf("state after start = %d, want running", got)
	}
	h.StartTimer()
	if got := h.Phase(); got != sim.PhaseRunning {
		t.Errorf("second start changed phase to %d", got)
	}

	h.SplitTimer()
	h.SplitTimer()
	if got := h.Splits(); got != 2 {
		t.Errorf("Splits = %d, want 2", got)
	}

	h.SetPhase(sim.PhasePaused)
	h.SplitTimer()
	if got := h.Splits(); got != 2 {
		t.Errorf("split counted while paused: %d", got)
	}

	h.ResetTimer()
	if h.Phase() != sim.PhaseNotRunning || h.Splits() != 0 {
		t.Errorf("reset left phase=%d splits=%d", h.Phase(), h.Splits())
	}
}

func TestGameTime(t *testing.T) {
	h := sim.NewHost()

	h.SetGameTime(90, 500000000)
	if got := h.GameTime(); got != 90*time.Second+500*time.Millisecond {
		t.Errorf("GameTime = %v", got)
	}

	h.PauseGameTime()
	if !h.GameTimePaused() {
		t.Error("not paused after PauseGameTime")
	}
	h.ResumeGameTime()
	if h.GameTimePaused() {
		t.Error("still paused after ResumeGameTime")
	}

	h.PauseGameTime()
	h.ResetTimer()
	if h.GameTime() != 0 || h.GameTimePaused() {
		t.Error("reset did not clear game time state")
	}
}

func TestTickRate(t *testing.T) {
	h := sim.NewHost()
	if got := h.TickRate(); got != 120 {
		t.Errorf("default tick rate = %v, want 120", got)
	}
	h.SetTickRate(60)
	if got := h.TickRate(); got != 60 {
		t.Errorf("TickRate = %v, want 60", got)
	}
	h.SetTickRate(0)
	h.SetTickRate(-5)
	if got := h.TickRate(); got != 60 {
		t.Errorf("non-positive rate overwrote the setting: %v", got)
	}
}

func TestVariablesAndMessages(t *testing.T) {
	var out strings.Builder
	h := sim.NewHost()
	h.Output = &out

	h.SetVariable("chapter", "3")
	h.SetVariable("chapter", "4")
	if got := h.Variable("chapter"); got != "4" {
		t.Errorf("Variable = %q, want %q", got, "4")
	}
	if got := h.Variable("unset"); got != "" {
		t.Errorf("unset Variable = %q", got)
	}

	h.PrintMessage("hello")
	h.PrintMessage("world")
	msgs := h.Messages()
	if len(msgs) != 2 || msgs[0] != "hello" || msgs[1] != "world" {
		t.Errorf("Messages = %v", msgs)
	}
	if got := out.String(); got != "hello\nworld\n" {
		t.Errorf("Output = %q", got)
	}
}

func TestImageReads(t *testing.T) {
	img := sim.NewImage()
	src := []byte{0x10, 0x20, 0x30, 0x40}
	img.Map(0x2000, src)
	src[0] = 0xFF // mapped data is a copy

	buf := make([]byte, 4)
	if !img.ReadAt(0x2000, buf) {
		t.Fatal("ReadAt failed")
	}
	if buf[0] != 0x10 {
		t.Error("Map aliased the caller's slice")
	}

	// Reads must be fully contained in one region.
	if img.ReadAt(0x2002, make([]byte, 4)) {
		t.Error("read past region end succeeded")
	}
	if img.ReadAt(0x1FFF, make([]byte, 2)) {
		t.Error("read starting before region succeeded")
	}
	if !img.ReadAt(0x3000, nil) {
		t.Error("zero-length read failed")
	}
}

func TestImagePoke(t *testing.T) {
	img := sim.NewImage()
	img.Map(0x2000, make([]byte, 8))

	if !img.Poke(0x2004, []byte{0xAB, 0xCD}) {
		t.Fatal("Poke inside region failed")
	}
	buf := make([]byte, 2)
	img.ReadAt(0x2004, buf)
	if buf[0] != 0xAB || buf[1] != 0xCD {
		t.Errorf("poked bytes = % X", buf)
	}
	if img.Poke(0x2007, []byte{1, 2}) {
		t.Error("Poke straddling region end succeeded")
	}
}

func TestImageModules(t *testing.T) {
	img := sim.NewImage()
	img.MapModule("game.exe", 0x400000, []byte{1, 2, 3})
	img.SetModule("engine.dll", 0x7FFF0000)

	if base, ok := img.Module("game.exe"); !ok || base != 0x400000 {
		t.Errorf("Module(game.exe) = %#x, %v", base, ok)
	}
	if base, ok := img.Module("engine.dll"); !ok || base != 0x7FFF0000 {
		t.Errorf("Module(engine.dll) = %#x, %v", base, ok)
	}
	if _, ok := img.Module("other.dll"); ok {
		t.Error("unknown module resolved")
	}
}
