// splitsim runs a compiled auto-splitter wasm against a simulated LiveSplit
// runtime, so splitters can be developed and debugged without LiveSplit.
//
// The target process is either a live local process (-attach, linux and
// windows) or a raw memory image loaded from a file (-image), exposed to
// the splitter under -proc. The splitter's update export is driven at its
// requested tick rate until interrupted or -ticks is reached.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/P1n3appl3/livesplit-wrapper/sim"
)

func main() {
	var (
		wasmFile  = flag.String("wasm", "", "Path to the splitter wasm file")
		attach    = flag.String("attach", "", "Local process name to expose to the splitter")
		image     = flag.String("image", "", "Raw memory image file to expose instead of a live process")
		imageBase = flag.Uint64("base", 0x400000, "Load address for -image")
		procName  = flag.String("proc", "", "Name the memory source is attachable as (defaults to -attach)")
		module    = flag.String("module", "", "Module name mapped at the image base")
		ticks     = flag.Int("ticks", 0, "Stop after this many ticks (0 = run until interrupted)")
		verbose   = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: splitsim -wasm <splitter.wasm> -attach <name>")
		fmt.Fprintln(os.Stderr, "       splitsim -wasm <splitter.wasm> -image <mem.bin> -proc <name> [-base addr] [-module name]")
		os.Exit(1)
	}

	if err := run(*wasmFile, *attach, *image, *imageBase, *procName, *module, *ticks, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, attach, image string, imageBase uint64, procName, module string, ticks int, verbose bool) error {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return err
	}
	defer log.Sync()

	h := sim.NewHost()
	h.Output = os.Stdout

	switch {
	case attach != "":
		local, err := sim.OpenLocal(attach)
		if err != nil {
			return fmt.Errorf("attach %q: %w", attach, err)
		}
		defer local.Close()
		if procName == "" {
			procName = attach
		}
		h.AddProcess(procName, local)
		log.Info("exposing local process", zap.String("name", procName), zap.Int("pid", local.PID()))
	case image != "":
		if procName == "" {
			return errors.New("-image requires -proc")
		}
		data, err := os.ReadFile(image)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		im := sim.NewImage()
		im.Map(imageBase, data)
		if module != "" {
			im.SetModule(module, imageBase)
		}
		h.AddProcess(procName, im)
		log.Info("exposing memory image",
			zap.String("name", procName),
			zap.Uint64("base", imageBase),
			zap.Int("size", len(data)))
	default:
		log.Warn("no memory source configured; attaches from the splitter will find nothing")
	}

	wasmBytes, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read wasm: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	update, cleanup, err := loadSplitter(ctx, wasmBytes, h)
	if err != nil {
		return err
	}
	defer cleanup(context.Background())

	log.Info("driving splitter", zap.Float64("tickRate", h.TickRate()))
	n := 0
	for {
		if _, err := update.Call(ctx); err != nil {
			return fmt.Errorf("update trap: %w", err)
		}
		n++
		if ticks > 0 && n >= ticks {
			break
		}
		interval := time.Duration(float64(time.Second) / h.TickRate())
		select {
		case <-ctx.Done():
			printSummary(log, h, n)
			return nil
		case <-time.After(interval):
		}
	}

	printSummary(log, h, n)
	return nil
}

func printSummary(log *zap.Logger, h *sim.Host, ticks int) {
	log.Info("simulation finished",
		zap.Int("ticks", ticks),
		zap.Uint32("phase", h.Phase()),
		zap.Int("splits", h.Splits()),
		zap.Duration("gameTime", h.GameTime()),
		zap.Bool("gameTimePaused", h.GameTimePaused()))
}
