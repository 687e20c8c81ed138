package g29

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type readStep struct {
	frame []byte
	err   error
}

// mockDevice is a scripted transport device. Reads consume the script in
// order; an exhausted script reads as a timeout. Frames pushed later extend
// the script, which lets controller tests feed reports after registering
// handlers.
type mockDevice struct {
	mu     sync.Mutex
	script []readStep
	writes [][]byte
	closes int
}

func (d *mockDevice) Read(p []byte, _ time.Duration) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.script) == 0 {
		return 0, nil
	}
	step := d.script[0]
	d.script = d.script[1:]
	if step.err != nil {
		return 0, step.err
	}
	return copy(p, step.frame), nil
}

func (d *mockDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = append(d.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (d *mockDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closes++
	return nil
}

func (d *mockDevice) push(steps ...readStep) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.script = append(d.script, steps...)
}

func (d *mockDevice) written() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.writes))
	copy(out, d.writes)
	return out
}

func (d *mockDevice) closeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

type mockTransport struct {
	dev     Device
	openErr error
	infos   []DeviceInfo
}

func (t *mockTransport) Wheels() []DeviceInfo { return t.infos }

func (t *mockTransport) Open(string) (Device, error) {
	if t.openErr != nil {
		return nil, t.openErr
	}
	if t.dev == nil {
		return nil, ErrDeviceNotFound
	}
	return t.dev, nil
}

func openTestSession(t *testing.T, dev *mockDevice) *session {
	t.Helper()
	s, err := openSession(&mockTransport{dev: dev}, "", zap.NewNop())
	if err != nil {
		t.Fatalf("openSession() error = %v", err)
	}
	return s
}

func TestSessionHandshake(t *testing.T) {
	idle := neutralFrame(nil)
	dev := &mockDevice{script: []readStep{{frame: idle}}}

	s := openTestSession(t, dev)
	if !s.ready() {
		t.Fatal("session not ready after handshake")
	}
	if !bytes.Equal(s.first, idle) {
		t.Errorf("first report = %#v, want the handshake ack", s.first)
	}

	writes := dev.written()
	want := nativeModeFrames()
	if len(writes) != len(want) {
		t.Fatalf("wrote %d frames during handshake, want %d", len(writes), len(want))
	}
	for i := range want {
		if !bytes.Equal(writes[i], want[i]) {
			t.Errorf("handshake frame %d = %#v, want %#v", i, writes[i], want[i])
		}
	}
}

func TestSessionHandshakeDiscardsCompatReports(t *testing.T) {
	idle := neutralFrame(nil)
	dev := &mockDevice{script: []readStep{
		{frame: make([]byte, 10)}, // compatibility mode report
		{frame: idle},
	}}

	s := openTestSession(t, dev)
	if !bytes.Equal(s.first, idle) {
		t.Errorf("first report = %#v, want the native frame", s.first)
	}
}

func TestSessionHandshakeTimeout(t *testing.T) {
	dev := &mockDevice{}
	_, err := openSession(&mockTransport{dev: dev}, "", zap.NewNop())
	if !errors.Is(err, ErrHandshakeTimeout) {
		t.Fatalf("openSession() error = %v, want %v", err, ErrHandshakeTimeout)
	}
	if dev.closeCount() != 1 {
		t.Errorf("device closed %d times, want 1", dev.closeCount())
	}
}

func TestSessionOpenErrors(t *testing.T) {
	if _, err := openSession(&mockTransport{}, "", zap.NewNop()); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("openSession() error = %v, want %v", err, ErrDeviceNotFound)
	}

	inner := errors.New("usb stack down")
	_, err := openSession(&mockTransport{openErr: inner}, "", zap.NewNop())
	if !errors.Is(err, inner) {
		t.Errorf("openSession() error = %v, want wrapped %v", err, inner)
	}
}

func TestSessionReadTimeoutIsNotAnError(t *testing.T) {
	dev := &mockDevice{script: []readStep{{frame: neutralFrame(nil)}}}
	s := openTestSession(t, dev)

	buf := make([]byte, inputReportSize)
	n, err := s.readReport(buf, time.Millisecond)
	if err != nil {
		t.Fatalf("readReport() error = %v", err)
	}
	if n != 0 {
		t.Errorf("readReport() = %d bytes on timeout, want 0", n)
	}
	if !s.ready() {
		t.Error("timeout closed the session")
	}
}

func TestSessionLostOnReadError(t *testing.T) {
	dev := &mockDevice{script: []readStep{
		{frame: neutralFrame(nil)},
		{err: io.ErrUnexpectedEOF},
	}}
	s := openTestSession(t, dev)

	buf := make([]byte, inputReportSize)
	if _, err := s.readReport(buf, time.Millisecond); !errors.Is(err, ErrSessionLost) {
		t.Fatalf("readReport() error = %v, want %v", err, ErrSessionLost)
	}
	if s.ready() {
		t.Error("session still ready after a lost transport")
	}
	if _, err := s.readReport(buf, time.Millisecond); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("readReport() on closed session error = %v, want %v", err, ErrSessionClosed)
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	dev := &mockDevice{script: []readStep{{frame: neutralFrame(nil)}}}
	s := openTestSession(t, dev)

	s.Close()
	s.Close()
	if dev.closeCount() != 1 {
		t.Errorf("device closed %d times, want 1", dev.closeCount())
	}
	if err := s.writeReport(stopForcesFrame()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("writeReport() after close error = %v, want %v", err, ErrSessionClosed)
	}
}
