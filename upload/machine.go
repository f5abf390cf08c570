package upload

// Phase is the state of an upload lifecycle.
type Phase int32

// Lifecycle phases. Running is the initial phase; Cancelled and Completed
// are terminal.
const (
	PhaseRunning Phase = iota
	PhasePaused
	PhaseCancelled
	PhaseCompleted
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseCancelled:
		return "cancelled"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// machine holds the pure transfer state of one upload attempt.
//
// Transitions contain no timing, channels or I/O; the Lifecycle layers the
// scheduling mechanism on top. Allowed transitions:
//
//	Running ⇄ Paused
//	Running → Cancelled, Paused → Cancelled
//	Running → Completed
//
// Each mutating method reports whether the transition applied; calls that do
// not apply leave the machine untouched.
type machine struct {
	phase       Phase
	transferred int64
	total       int64
	chunk       int64
}

func newMachine(total, chunk int64) machine {
	return machine{phase: PhaseRunning, total: total, chunk: chunk}
}

// step advances the transfer by min(chunk, remaining) and returns the new
// cumulative total plus whether the end of the payload was reached.
// Only legal while Running.
func (m *machine) step() (int64, bool) {
	n := m.chunk
	if remaining := m.total - m.transferred; n > remaining {
		n = remaining
	}
	m.transferred += n
	return m.transferred, m.transferred >= m.total
}

func (m *machine) pause() bool {
	if m.phase != PhaseRunning {
		return false
	}
	m.phase = PhasePaused
	return true
}

func (m *machine) resume() bool {
	if m.phase != PhasePaused {
		return false
	}
	m.phase = PhaseRunning
	return true
}

func (m *machine) cancel() bool {
	if m.phase == PhaseCancelled || m.phase == PhaseCompleted {
		return false
	}
	m.phase = PhaseCancelled
	return true
}

func (m *machine) complete() {
	m.phase = PhaseCompleted
}
