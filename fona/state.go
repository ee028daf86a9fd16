package fona

// State is the connection lifecycle state of a Session. Exactly one
// state is active at a time and only Session operations mutate it.
type State int

const (
	// StateClosed means the serial link has not been opened yet.
	StateClosed State = iota
	// StateOpening means the port is being opened and the module probed.
	StateOpening
	// StateDisconnected means the link is up but the module is not
	// registered with a carrier.
	StateDisconnected
	// StateConnecting means the PIN was entered and registration is
	// pending.
	StateConnecting
	// StateIdle means the session is ready to process a command.
	StateIdle
	// StateBusy means a command is in flight.
	StateBusy

	// StateError is terminal: no operation may run once entered except
	// Close and Panic.
	StateError State = 999
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
