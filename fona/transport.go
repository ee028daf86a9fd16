package fona

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=fona

// Transport is an established byte channel to the modem module.
//
// A Transport is assumed to be already connected and ready for use.
// Typical implementations are serial ports or in-memory fakes used for
// testing. The session owns its Transport exclusively; implementations
// do not need to be safe for concurrent use.
type Transport interface {
	// WriteLine appends a carriage-return terminator to cmd, writes it
	// and flushes. Failures surface as *TransportError.
	WriteLine(cmd string) error

	// ReadLines returns whatever bytes are currently buffered, split
	// into lines in receipt order. It is a non-blocking snapshot and may
	// return an empty slice. Failures surface as *TransportError.
	ReadLines() ([]string, error)

	// Close releases the channel. It is idempotent and safe to call on
	// an already-closed transport.
	Close() error
}

// Dialer opens a Transport to the module.
//
// Dialer abstracts how the connection is created (serial port or test
// double). The session keeps its Dialer for the whole lifetime: Panic
// needs a fresh raw connection after the primary transport is gone.
type Dialer interface {
	// Dial opens a Transport on the given port at the given baud rate.
	Dial(port string, baud int) (Transport, error)
}
