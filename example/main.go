// An example auto-splitter. It attaches to a fictional game, keeps the
// game-time counter in sync with the in-game timer, and splits whenever the
// level counter advances.
//
// Build it for the LiveSplit runtime with:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o splitter.wasm .
//
// and try it out natively with:
//
//	go run ../cmd/splitsim -wasm splitter.wasm -attach game.exe
package main

import (
	"time"

	"go.uber.org/zap"

	livesplit "github.com/P1n3appl3/livesplit-wrapper"
	"github.com/P1n3appl3/livesplit-wrapper/pod"
	"github.com/P1n3appl3/livesplit-wrapper/process"
)

// stateOffset is where gameState lives relative to the main module.
const stateOffset = 0x1234

// gameState is the flat record the game keeps at a fixed module offset.
type gameState struct {
	Level   uint32
	Loading uint32
	IGT     float64
}

type splitter struct {
	game  *process.Process
	base  process.Address
	level uint32
}

func newSplitter(env *livesplit.Env) livesplit.Splitter {
	env.SetTickRate(60)
	return &splitter{}
}

func (s *splitter) Update(env *livesplit.Env) {
	if s.game == nil && !s.attach(env) {
		return
	}

	state, err := pod.Read[gameState](s.game, s.base+stateOffset)
	if err != nil {
		// Routine while the game is on a menu or shutting down; drop the
		// handle and re-attach when it comes back.
		s.game.Close()
		s.game = nil
		return
	}

	env.SetGameTime(time.Duration(state.IGT * float64(time.Second)))
	if state.Loading != 0 {
		env.PauseGameTime()
	} else {
		env.ResumeGameTime()
	}

	switch env.State() {
	case livesplit.StateNotRunning:
		if state.Level == 0 && state.IGT < 1 {
			env.Start()
		}
	case livesplit.StateRunning:
		if state.Level != s.level {
			env.Split()
			env.Log().Info("level finished", zap.Uint32("level", s.level))
		}
	}
	s.level = state.Level
}

func (s *splitter) attach(env *livesplit.Env) bool {
	game, ok := env.Attach("game.exe")
	if !ok {
		return false
	}
	base, ok := game.Module("game.exe")
	if !ok {
		game.Close()
		return false
	}
	s.game = game
	s.base = base
	env.Log().Info("attached to game")
	return true
}

func init() {
	livesplit.Register(newSplitter)
}

func main() {}
