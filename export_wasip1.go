//go:build wasip1

package livesplit

// update is the single entry point the runtime invokes on every tick.
//
//go:wasmexport update
func update() {
	if registered != nil {
		registered.Tick()
	}
}
