package fona

import (
	"errors"
	"fmt"
)

// ErrNoPort is returned when a session is configured without a serial
// port name.
var ErrNoPort = errors.New("serial port name is required")

// TransportError wraps a failure of the underlying serial channel.
// Transport errors are always escalated to a fatal ProtocolError by the
// session; they never surface as warnings.
type TransportError struct {
	// Op is the transport primitive that failed: "open", "write",
	// "read" or "close".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is fatal. When one is returned the session has been
// forced into the terminal StateError and the only remaining operations
// are Close and Panic.
type ProtocolError struct {
	// Op is the session operation that failed.
	Op string
	// Message is the recorded error message, also available via
	// Session.LastError.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("fona: %s(): %s", e.Op, e.Message)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
