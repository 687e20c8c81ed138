package g29

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type sessionState uint8

const (
	sessionClosed sessionState = iota
	sessionOpening
	sessionHandshaking
	sessionReady
)

// handshakeTimeout bounds how long openSession waits for the wheel to start
// reporting in native mode.
const handshakeTimeout = 3 * time.Second

// session owns one open transport handle and its lifecycle:
// Closed → Opening → Handshaking → Ready → Closed. Any I/O failure closes
// the session permanently; reconnecting means opening a new session.
type session struct {
	mu    sync.Mutex
	state sessionState
	dev   Device
	log   *zap.Logger

	// first is the report that confirmed native mode, kept so the
	// controller can prime its state from it.
	first []byte
}

// openSession opens the transport, runs the native mode handshake and waits
// for one valid report before declaring the session ready.
func openSession(t Transport, path string, log *zap.Logger) (*session, error) {
	s := &session{state: sessionOpening, log: log}

	dev, err := t.Open(path)
	if err != nil {
		s.state = sessionClosed
		if errors.Is(err, ErrDeviceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("g29: transport: %w", err)
	}
	s.dev = dev
	s.state = sessionHandshaking

	for _, frame := range nativeModeFrames() {
		if _, err := dev.Write(frame); err != nil {
			s.Close()
			return nil, fmt.Errorf("g29: handshake write: %w", err)
		}
	}

	// The wheel acknowledges the mode switch by reporting full-size native
	// frames. Anything else within the deadline is a leftover
	// compatibility mode report and is discarded.
	buf := make([]byte, inputReportSize)
	deadline := time.Now().Add(handshakeTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			s.Close()
			return nil, ErrHandshakeTimeout
		}
		n, err := dev.Read(buf, remaining)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("g29: handshake read: %w", err)
		}
		if n == 0 {
			s.Close()
			return nil, ErrHandshakeTimeout
		}
		if _, err := DecodeReport(buf[:n]); err != nil {
			log.Debug("discarding pre-native report", zap.Int("len", n))
			continue
		}
		s.first = append([]byte(nil), buf[:n]...)
		break
	}

	s.mu.Lock()
	s.state = sessionReady
	s.mu.Unlock()
	log.Debug("session ready")
	return s, nil
}

// readReport reads one input report into buf with a bounded wait. A timeout
// returns (0, nil): no new data this cycle, the caller keeps its prior
// state. Any transport error closes the session and is reported as
// ErrSessionLost.
func (s *session) readReport(buf []byte, timeout time.Duration) (int, error) {
	if !s.ready() {
		return 0, ErrSessionClosed
	}
	n, err := s.dev.Read(buf, timeout)
	if err != nil {
		s.Close()
		return 0, fmt.Errorf("%w: %v", ErrSessionLost, err)
	}
	return n, nil
}

// writeReport writes one output report. A transport error closes the
// session.
func (s *session) writeReport(frame []byte) error {
	if !s.ready() {
		return ErrSessionClosed
	}
	if _, err := s.dev.Write(frame); err != nil {
		s.Close()
		return fmt.Errorf("%w: %v", ErrSessionLost, err)
	}
	return nil
}

func (s *session) ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == sessionReady
}

// Close releases the transport handle. It is idempotent and safe from any
// state.
func (s *session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == sessionClosed {
		return
	}
	s.state = sessionClosed
	if s.dev != nil {
		_ = s.dev.Close()
	}
}
