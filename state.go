package sieve

// Lifecycle is the run state of a Pipeline.
type Lifecycle int32

const (
	// Stopped indicates no producer or consumer loops are running.
	Stopped Lifecycle = iota

	// Running indicates the loops have been spawned and not yet stopped.
	Running
)

// String returns the string representation of the lifecycle state.
func (l Lifecycle) String() string {
	switch l {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// State represents the current state of a Control.
type State int32

const (
	// StateLoading indicates the Control is initializing and has not yet
	// processed any control document.
	StateLoading State = iota

	// StateHealthy indicates the last control document was applied.
	StateHealthy

	// StateDegraded indicates the last control document was rejected. The
	// previously applied settings remain in effect.
	StateDegraded

	// StateEmpty indicates the initial control document was rejected and no
	// document has ever been applied. The Control continues watching.
	StateEmpty
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
