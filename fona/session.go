package fona

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"i4.energy/across/fonagw/at"
)

// Session drives a FONA-class cellular module over a serial link using
// AT commands.
//
// A Session owns at most one Transport and is strictly single-threaded:
// every command is a synchronous write-then-read exchange and fixed
// sleeps are the only form of waiting. There is no correlation between a
// command and the lines read back; the protocol relies on the module
// replying promptly and completely before the next read. Callers must
// not share a Session across goroutines.
//
// Failure severities are two-tier. A warning records a message
// (LastError), leaves the state untouched and surfaces as a false return
// value. A fatal failure forces the terminal StateError and surfaces as
// a *ProtocolError; the only way out is Close and a fresh session.
type Session struct {
	config Config
	logger *slog.Logger

	// transport is present only while the link is open.
	transport Transport
	state     State
	lastErr   string
}

// New builds a Session in StateClosed. It does not touch the serial
// port; call Establish (or Open and Connect) to bring the link up.
func New(config Config) *Session {
	config.setDefaults()
	return &Session{
		config: config,
		logger: config.Logger,
		state:  StateClosed,
	}
}

// State returns the current connection state.
func (s *Session) State() State { return s.state }

// LastError returns the message recorded by the most recent warning or
// fatal failure. It is cleared at the start of each operation.
func (s *Session) LastError() string { return s.lastErr }

// Establish opens the serial link and registers with the carrier,
// mirroring the module's power-on sequence. On failure the session is
// left usable only for Close and Panic; callers must check State before
// issuing commands.
func (s *Session) Establish() error {
	if s.config.Verbose {
		s.logger.Info("init",
			"port", s.config.Port,
			"speed", s.config.BaudRate,
			"verbose", s.config.Verbose)
	}

	if err := s.Open(); err != nil {
		return err
	}
	connected, err := s.Connect()
	if err != nil {
		return err
	}
	if !connected {
		return errors.New("fona: not registered with a carrier")
	}
	return nil
}

// Open acquires the serial transport and probes for the module with
// "AT". The probe is retried up to OpenRetryCount times, sleeping
// OpenRetrySleep after every failed attempt; the probe succeeds when the
// last response line starts with "OK". Exhausting the retries is fatal,
// not a soft failure.
//
// Open requires StateClosed and ends in StateDisconnected.
func (s *Session) Open() error {
	s.lastErr = ""

	if s.state != StateClosed {
		return s.fail("open", fmt.Sprintf("cannot open serial port: unknown status (%s)", s.state), nil)
	}

	s.state = StateOpening
	transport, err := s.config.Dialer.Dial(s.config.Port, s.config.BaudRate)
	if err != nil {
		return s.fail("open", fmt.Sprintf("error while opening serial port: %v", err), err)
	}
	s.transport = transport

	for retry := s.config.OpenRetryCount; retry > 0; retry-- {
		lines, err := s.request(at.CmdProbe)
		if err != nil {
			return err
		}
		if at.ProbeAccepted(lines) {
			s.state = StateDisconnected
			return nil
		}
		// Module missing or not ready yet.
		time.Sleep(s.config.OpenRetrySleep)
	}

	return s.fail("open", "AT command does not provide the expected result", nil)
}

// IsConnected queries carrier registration with AT+COPS?.
//
// The final response line must be exactly "OK" (stricter than the Open
// probe; the two checks are historically distinct). Any other terminal
// line is a warning, not fatal, and reports not-connected. Registration
// itself is decided by at.Registered's fixed-index inspection.
func (s *Session) IsConnected() (bool, error) {
	if s.transport == nil {
		return false, nil
	}

	lines, err := s.request(at.CmdOperatorQuery)
	if err != nil {
		return false, err
	}
	if !at.FinalOK(lines) {
		s.warn("connect", "unexpected result while checking phone network")
		return false, nil
	}
	return at.Registered(lines), nil
}

// Connect registers the module with the carrier. It requires
// StateDisconnected. When the module is already registered the PIN entry
// is skipped entirely. Otherwise the PIN is sent and the session blocks
// for the fixed ConnectSettle duration before re-checking; there is no
// event to wait on. On success the session is StateIdle; on registration
// failure it returns to StateDisconnected and reports false.
func (s *Session) Connect() (bool, error) {
	s.lastErr = ""

	if s.state != StateDisconnected {
		return false, s.fail("connect", "serial line is not opened: impossible to connect to the network", nil)
	}

	connected, err := s.IsConnected()
	if err != nil {
		return false, err
	}
	if connected {
		s.logger.Info("already connected, skipping PIN code")
		s.state = StateIdle
		return true, nil
	}

	s.state = StateConnecting
	if _, err := s.request(at.EnterPIN(s.config.PIN)); err != nil {
		return false, err
	}

	time.Sleep(s.config.ConnectSettle)

	connected, err = s.IsConnected()
	if err != nil {
		return false, err
	}
	if !connected {
		s.state = StateDisconnected
		return false, nil
	}
	s.state = StateIdle
	return true, nil
}

// Send transmits a TEXT-mode SMS. The text-mode command must finish with
// an exact "OK" line or Send warns and reports false with the state
// unchanged. After that the compose command and the Ctrl-Z-terminated
// body are issued and Send reports true regardless of their responses;
// delivery is not confirmed.
//
// Send does not require StateIdle: it may be issued from any open
// state. When the session is Idle the send is bracketed
// StateBusy -> StateIdle.
func (s *Session) Send(phone, message string) (bool, error) {
	s.lastErr = ""

	busy := s.state == StateIdle
	if busy {
		s.state = StateBusy
	}

	lines, err := s.request(at.CmdTextMode)
	if err != nil {
		return false, err
	}
	if !at.FinalOK(lines) {
		if busy {
			s.state = StateIdle
		}
		s.warn("send", "the message format could not be set to TEXT")
		return false, nil
	}

	if _, err := s.request(at.Compose(phone)); err != nil {
		return false, err
	}
	if _, err := s.request(message + at.CtrlZ); err != nil {
		return false, err
	}

	if busy {
		s.state = StateIdle
	}
	return true, nil
}

// Close releases the transport and returns the session to StateClosed.
// It is idempotent and the only exit from the terminal StateError. A
// transport close failure is returned but does not block the transition.
func (s *Session) Close() error {
	s.lastErr = ""

	var err error
	if s.transport != nil {
		err = s.transport.Close()
		s.transport = nil
	}
	s.state = StateClosed
	return err
}

// Panic forces a hard power-off of the module. It discards the current
// transport if any, opens a fresh raw connection solely to issue the
// power-down command, closes it, and always leaves the session in the
// terminal StateError. Panic never returns nil.
func (s *Session) Panic() error {
	if s.transport != nil {
		s.transport.Close()
		s.transport = nil
	}

	raw, err := s.config.Dialer.Dial(s.config.Port, s.config.BaudRate)
	if err != nil {
		return s.fail("panic", fmt.Sprintf("device in panic mode: %v", err), err)
	}
	if err := raw.WriteLine(at.CmdPowerDown); err != nil {
		raw.Close()
		return s.fail("panic", fmt.Sprintf("device in panic mode: %v", err), err)
	}
	raw.Close()

	return s.fail("panic", "device in panic mode", nil)
}

// request sends one command line and snapshots whatever response bytes
// are already buffered. Transport failures escalate to fatal.
func (s *Session) request(cmd string) ([]string, error) {
	if s.transport == nil {
		return nil, s.fail("request", "serial line is not opened", nil)
	}
	if err := s.transport.WriteLine(cmd); err != nil {
		return nil, s.fail("request", err.Error(), err)
	}
	lines, err := s.transport.ReadLines()
	if err != nil {
		return nil, s.fail("request", err.Error(), err)
	}
	if s.config.Verbose {
		s.logger.Debug("request", "cmd", cmd, "response", lines)
	}
	return lines, nil
}

// warn records a recoverable failure. The state is left untouched; the
// caller reports the failure through its boolean result.
func (s *Session) warn(op, msg string) {
	s.lastErr = fmt.Sprintf("%s(): %s", op, msg)
	s.logger.Warn(msg, "op", op)
}

// fail records an unrecoverable failure and forces the terminal
// StateError. The returned *ProtocolError aborts the calling operation.
func (s *Session) fail(op, msg string, cause error) error {
	s.lastErr = fmt.Sprintf("%s(): %s", op, msg)
	s.state = StateError
	s.logger.Error(msg, "op", op)
	return &ProtocolError{Op: op, Message: msg, Err: cause}
}
