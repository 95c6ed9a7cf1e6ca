// Package livesplit is an SDK for writing LiveSplit auto-splitters in Go.
//
// An auto-splitter is a small piece of logic the LiveSplit runtime loads
// into a wasm sandbox and ticks periodically. On each tick it inspects the
// memory of the game process (see the process and pod packages) and drives
// the timer through the operations on Env.
//
// A minimal splitter looks like this:
//
//	type mySplitter struct {
//		game *process.Process
//	}
//
//	func newSplitter(env *livesplit.Env) livesplit.Splitter {
//		env.SetTickRate(60)
//		return &mySplitter{}
//	}
//
//	func (s *mySplitter) Update(env *livesplit.Env) {
//		if s.game == nil {
//			s.game, _ = env.Attach("game.exe")
//			return
//		}
//		// read memory, env.Start(), env.Split(), ...
//	}
//
//	func init() {
//		livesplit.Register(newSplitter)
//	}
//
// Build with GOOS=wasip1 GOARCH=wasm -buildmode=c-shared so the runtime can
// call the exported update entry point. Off-wasm the same code builds
// against a disconnected bridge, and the sim package supplies a scripted
// runtime for tests.
package livesplit
