package livesplit

import "github.com/P1n3appl3/livesplit-wrapper/host"

// registered is the driver the host's zero-argument update export reaches.
// It is the only package-level state in the SDK; the export takes no
// arguments, so the glue at the wasm boundary has to own something.
var registered *Driver

// Register wires a splitter constructor to the runtime's update entry
// point. Call it once, from the splitter binary's init or main. The
// constructor runs on the first tick, not here.
func Register(construct func(*Env) Splitter) {
	registered = NewDriver(host.Runtime(), construct)
}
