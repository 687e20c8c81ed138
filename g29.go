// Package g29 drives the Logitech G29 Driving Force racing wheel over USB
// HID: it decodes input reports into wheel state, dispatches change events
// to registered handlers and writes force feedback commands back to the
// wheel.
package g29

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Wheel is a connected G29. One Wheel corresponds to one session: after
// Disconnect, or after the session is lost, a new connection is made with
// Connect.
//
// A dedicated goroutine owns the poll loop and the device session; handlers
// run synchronously on it. The state accessors and the command methods are
// safe to call from any goroutine, including from inside a handler.
type Wheel struct {
	opts Options
	log  *zap.Logger

	sess     *session
	registry *registry

	stateMu sync.RWMutex
	state   WheelState

	writeMu sync.Mutex

	cancel       context.CancelFunc
	done         chan struct{}
	disconnected atomic.Bool

	// pollGID identifies the poll goroutine, so Disconnect can tell a
	// handler-initiated call from an external one.
	pollGID atomic.Uint64
}

// Connect opens the wheel described by opts, switches it into native mode,
// applies the configured range and auto-center settings and starts the poll
// loop.
func Connect(opts Options) (*Wheel, error) {
	opts = opts.withDefaults()

	sess, err := openSession(opts.Transport, opts.Path, opts.Logger)
	if err != nil {
		return nil, err
	}

	w := &Wheel{
		opts:     opts,
		log:      opts.Logger,
		sess:     sess,
		registry: newRegistry(),
	}

	if err := w.initialize(); err != nil {
		sess.Close()
		return nil, err
	}

	// Prime the state from the report that completed the handshake, so the
	// first poll cycle diffs against real values instead of zeros.
	if st, err := DecodeReport(sess.first); err == nil {
		w.state = st
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.poll(ctx)
	return w, nil
}

// initialize clears stale effects and applies the configured operating range
// and auto-center behavior, matching the hardware bring-up sequence.
func (w *Wheel) initialize() error {
	var frames [][]byte
	if !w.opts.NoForceFeedback {
		frames = append(frames, stopForcesFrame())
	}
	frames = append(frames, rangeFrame(w.opts.Range))
	if w.opts.NoAutoCenter {
		frames = append(frames, autoCenterOffFrame())
	} else {
		frames = append(frames, autoCenterFrames(w.opts.AutoCenterStrength, w.opts.TurnMultiplier)...)
	}
	return w.writeFrames(frames)
}

func (w *Wheel) writeFrames(frames [][]byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	for _, f := range frames {
		if err := w.sess.writeReport(f); err != nil {
			return err
		}
	}
	return nil
}

func (w *Wheel) poll(ctx context.Context) {
	defer close(w.done)
	w.pollGID.Store(goroutineID())
	buf := make([]byte, inputReportSize)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := w.sess.readReport(buf, w.opts.ReadTimeout)
		if err != nil {
			if ctx.Err() != nil {
				// Explicit disconnect, not a lost session.
				return
			}
			w.log.Debug("session lost", zap.Error(err))
			w.dispatch(ctx, Disconnected)
			return
		}
		if n == 0 {
			// No new data this cycle.
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.opts.PollInterval):
			}
			continue
		}

		cur, err := DecodeReport(buf[:n])
		if err != nil {
			// One corrupt frame must not end the connection.
			w.log.Debug("dropping malformed report", zap.Error(err))
			continue
		}

		w.stateMu.Lock()
		prev := w.state
		w.state = cur
		w.stateMu.Unlock()

		for _, e := range diffStates(prev, cur) {
			if ctx.Err() != nil {
				return
			}
			w.dispatch(ctx, e)
		}
	}
}

// dispatch invokes the handlers for e in order, stopping as soon as the
// context is cancelled so no handler runs once Disconnect is underway.
func (w *Wheel) dispatch(ctx context.Context, e Event) {
	for _, fn := range w.registry.handlersFor(e) {
		if ctx.Err() != nil {
			return
		}
		fn(w)
	}
}

// Disconnect stops the poll loop and releases the device. It is idempotent.
// Before closing it stops active effects, clears the LEDs and disables
// auto-centering so the wheel is left in a neutral state.
//
// Called from outside the poll goroutine, Disconnect waits for the loop to
// exit before returning, even while a handler is in flight, so no handler
// runs afterwards. Called from inside a handler it cannot wait for its own
// loop; the loop still stops before the next handler would run.
func (w *Wheel) Disconnect() {
	if !w.disconnected.CompareAndSwap(false, true) {
		return
	}
	w.shutdownEffects()
	w.cancel()
	w.sess.Close()
	if w.pollGID.Load() != goroutineID() {
		<-w.done
	}
}

func (w *Wheel) shutdownEffects() {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	var frames [][]byte
	if !w.opts.NoForceFeedback {
		frames = append(frames, stopForcesFrame())
	}
	frames = append(frames, ledFrame(LedNone), autoCenterOffFrame())
	for _, f := range frames {
		if w.sess.writeReport(f) != nil {
			return
		}
	}
}

// Connected reports whether the poll loop is running and the session is
// ready.
func (w *Wheel) Connected() bool {
	select {
	case <-w.done:
		return false
	default:
	}
	return w.sess.ready()
}

// State returns the current snapshot. The snapshot is immutable; it never
// reflects a partially decoded report.
func (w *Wheel) State() WheelState {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return w.state
}

// Steering is the wheel rotation, -1 (full left) to 1 (full right).
func (w *Wheel) Steering() float64 { return w.State().Steering }

// SteeringFine is the raw low byte of the steering axis.
func (w *Wheel) SteeringFine() uint8 { return w.State().SteeringFine }

// Throttle is the throttle pedal, 0 (released) to 1 (fully pressed).
func (w *Wheel) Throttle() float64 { return w.State().Throttle }

// Brake is the brake pedal, 0 (released) to 1 (fully pressed).
func (w *Wheel) Brake() float64 { return w.State().Brake }

// Clutch is the clutch pedal, 0 (released) to 1 (fully pressed).
func (w *Wheel) Clutch() float64 { return w.State().Clutch }

// Dpad is the current directional pad position.
func (w *Wheel) Dpad() DpadPosition { return w.State().Dpad }

// Gear is the current H-pattern shifter position.
func (w *Wheel) Gear() Gear { return w.State().Gear }

// Pressed reports whether b is currently held.
func (w *Wheel) Pressed(b Button) bool { return w.State().Pressed(b) }

// ShifterX is the raw shifter stick x coordinate.
func (w *Wheel) ShifterX() uint8 { return w.State().ShifterX }

// ShifterY is the raw shifter stick y coordinate.
func (w *Wheel) ShifterY() uint8 { return w.State().ShifterY }

// RegisterEventHandler registers fn for e. Handlers for the same event run
// in registration order; registering the same function twice invokes it
// twice. The returned token removes the handler again with
// UnregisterEventHandler.
func (w *Wheel) RegisterEventHandler(e Event, fn Handler) Registration {
	return w.registry.register(e, fn)
}

// UnregisterEventHandler removes a previously registered handler.
func (w *Wheel) UnregisterEventHandler(t Registration) {
	w.registry.remove(t)
}

// SendForceFeedback encodes cmd and writes it to the wheel immediately.
// Out-of-range magnitudes are clamped, never rejected. Write errors are
// returned to the caller; the poll loop is unaffected beyond the session
// transitioning to closed on a transport failure.
func (w *Wheel) SendForceFeedback(cmd ForceFeedbackCommand) error {
	if w.opts.NoForceFeedback {
		return ErrForceFeedbackDisabled
	}
	if w.disconnected.Load() {
		return ErrNotConnected
	}
	return w.writeFrames(cmd.frames())
}

// SetLeds sets the rev indicator LEDs above the wheel hub.
func (w *Wheel) SetLeds(mask Led) error {
	if w.disconnected.Load() {
		return ErrNotConnected
	}
	return w.writeFrames([][]byte{ledFrame(mask)})
}

// SetRange sets the wheel operating range in degrees, clamped to 40..900.
func (w *Wheel) SetRange(degrees uint16) error {
	if w.disconnected.Load() {
		return ErrNotConnected
	}
	return w.writeFrames([][]byte{rangeFrame(degrees)})
}

// SetAutoCenterForce adjusts the auto-centering spring. Strength is
// 0x00..0x0f; turnMultiplier is the rate the force rises as the wheel turns,
// 0x00..0xff.
func (w *Wheel) SetAutoCenterForce(strength, turnMultiplier byte) error {
	if w.disconnected.Load() {
		return ErrNotConnected
	}
	if strength > 0x0f {
		strength = 0x0f
	}
	return w.writeFrames(autoCenterFrames(strength, turnMultiplier))
}

// ForceFriction applies per-motor friction, 0..7 for each side, mirroring
// the hardware's raw friction interface. SendForceFeedback with Friction is
// the normalized equivalent.
func (w *Wheel) ForceFriction(left, right byte) error {
	if w.opts.NoForceFeedback {
		return ErrForceFeedbackDisabled
	}
	if w.disconnected.Load() {
		return ErrNotConnected
	}
	if left > 7 {
		left = 7
	}
	if right > 7 {
		right = 7
	}
	return w.writeFrames([][]byte{frictionFrame(left * 7, right * 7)})
}
