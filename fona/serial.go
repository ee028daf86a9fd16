package fona

import (
	"time"

	"go.bug.st/serial"

	"i4.energy/across/fonagw/at"
)

// DefaultReadTimeout bounds the single Read behind each ReadLines
// snapshot. The protocol has no end-of-response marker, so the timeout
// is what turns a blocking port read into "whatever is buffered now".
const DefaultReadTimeout = 200 * time.Millisecond

// SerialDialer opens a modem Transport over a local serial port.
type SerialDialer struct {
	// Mode overrides the port mode. When nil, 8N1 at the requested baud
	// rate is used.
	Mode *serial.Mode

	// ReadTimeout bounds each ReadLines snapshot. Zero means
	// DefaultReadTimeout.
	ReadTimeout time.Duration
}

// Dial opens the serial port and prepares it for snapshot reads.
func (d SerialDialer) Dial(port string, baud int) (Transport, error) {
	if port == "" {
		return nil, ErrNoPort
	}

	mode := d.Mode
	if mode == nil {
		mode = &serial.Mode{BaudRate: baud}
	}

	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, &TransportError{Op: "open", Err: err}
	}

	timeout := d.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	if err := p.SetReadTimeout(timeout); err != nil {
		p.Close()
		return nil, &TransportError{Op: "open", Err: err}
	}

	return &serialTransport{port: p}, nil
}

type serialTransport struct {
	port   serial.Port
	buf    [4096]byte
	closed bool
}

func (t *serialTransport) WriteLine(cmd string) error {
	if _, err := t.port.Write([]byte(cmd + at.CR)); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	if err := t.port.Drain(); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

func (t *serialTransport) ReadLines() ([]string, error) {
	// With the read timeout set, Read returns the buffered bytes or
	// (0, nil) when nothing arrived in time.
	n, err := t.port.Read(t.buf[:])
	if err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}
	return at.SplitLines(t.buf[:n]), nil
}

func (t *serialTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.port.Close(); err != nil {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}
