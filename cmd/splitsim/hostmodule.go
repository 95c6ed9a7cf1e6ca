package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/P1n3appl3/livesplit-wrapper/sim"
)

// loadSplitter instantiates the splitter wasm with the LiveSplit boundary
// primitives bound to h, and returns its update export plus a cleanup
// function for the wazero runtime.
func loadSplitter(ctx context.Context, wasmBytes []byte, h *sim.Host) (api.Function, func(context.Context) error, error) {
	r := wazero.NewRuntime(ctx)

	if err := instantiateEnv(ctx, r, h); err != nil {
		r.Close(ctx)
		return nil, nil, fmt.Errorf("instantiate env module: %w", err)
	}

	// Splitters built from Go or Rust link against WASI for clocks and
	// allocation even though the boundary itself never touches it.
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	cfg := wazero.NewModuleConfig().
		WithName("splitter").
		WithStartFunctions() // reactors initialize below, not via _start
	mod, err := r.InstantiateWithConfig(ctx, wasmBytes, cfg)
	if err != nil {
		r.Close(ctx)
		return nil, nil, fmt.Errorf("instantiate splitter: %w", err)
	}

	if initFn := mod.ExportedFunction("_initialize"); initFn != nil {
		if _, err := initFn.Call(ctx); err != nil {
			r.Close(ctx)
			return nil, nil, fmt.Errorf("_initialize trap: %w", err)
		}
	}

	update := mod.ExportedFunction("update")
	if update == nil {
		r.Close(ctx)
		return nil, nil, errors.New("wasm exports no update function; did you register a splitter?")
	}
	return update, r.Close, nil
}

// instantiateEnv exposes the boundary primitives as the "env" host module,
// in the exact numeric shapes the SDK's wasm imports declare.
func instantiateEnv(ctx context.Context, r wazero.Runtime, h *sim.Host) error {
	_, err := r.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, ptr, n uint32) uint64 {
			name, ok := guestString(m, ptr, n)
			if !ok {
				return 0
			}
			return h.AttachProcess(name)
		}).
		Export("process_attach").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, handle uint64) {
			h.DetachProcess(handle)
		}).
		Export("process_detach").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, handle uint64, ptr, n uint32) uint64 {
			name, ok := guestString(m, ptr, n)
			if !ok {
				return 0
			}
			return h.ModuleAddress(handle, name)
		}).
		Export("process_get_module_address").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, handle, addr uint64, buf, bufLen uint32) uint32 {
			tmp := make([]byte, bufLen)
			if !h.ReadMemory(handle, addr, tmp) {
				return 0
			}
			if !m.Memory().Write(buf, tmp) {
				return 0
			}
			return 1
		}).
		Export("process_read").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, ptr, n uint32) {
			if msg, ok := guestString(m, ptr, n); ok {
				h.PrintMessage(msg)
			}
		}).
		Export("runtime_print_message").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, hz float64) {
			h.SetTickRate(hz)
		}).
		Export("runtime_set_tick_rate").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) { h.StartTimer() }).
		Export("timer_start").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) { h.SplitTimer() }).
		Export("timer_split").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) { h.ResetTimer() }).
		Export("timer_reset").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, kptr, kn, vptr, vn uint32) {
			key, ok := guestString(m, kptr, kn)
			if !ok {
				return
			}
			value, ok := guestString(m, vptr, vn)
			if !ok {
				return
			}
			h.SetVariable(key, value)
		}).
		Export("timer_set_variable").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, seconds int64, nanos int32) {
			h.SetGameTime(seconds, nanos)
		}).
		Export("timer_set_game_time").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) { h.PauseGameTime() }).
		Export("timer_pause_game_time").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) { h.ResumeGameTime() }).
		Export("timer_resume_game_time").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) uint32 { return h.TimerState() }).
		Export("timer_get_state").
		Instantiate(ctx)
	return err
}

func guestString(m api.Module, ptr, n uint32) (string, bool) {
	b, ok := m.Memory().Read(ptr, n)
	if !ok {
		return "", false
	}
	return string(b), true
}
