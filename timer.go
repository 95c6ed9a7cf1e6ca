package livesplit

// TimerState is a snapshot of the host timer's phase. It is read fresh from
// the runtime on every State call and never cached here.
type TimerState uint8

const (
	// StateNotRunning means the timer has yet to be started.
	StateNotRunning TimerState = iota
	// StateRunning means the timer is currently running.
	StateRunning
	// StatePaused means the timer is paused.
	StatePaused
	// StateEnded means a run was completed.
	StateEnded
	// StateUnknown is reported when the runtime returns a value outside the
	// documented range.
	StateUnknown
)

func (s TimerState) String() string {
	switch s {
	case StateNotRunning:
		return "not running"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// timerStateFromHost maps the raw boundary integer onto TimerState. Values
// outside 0..3 become StateUnknown instead of being reinterpreted blindly.
func timerStateFromHost(v uint32) TimerState {
	if v > uint32(StateEnded) {
		return StateUnknown
	}
	return TimerState(v)
}
