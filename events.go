package g29

import "sync"

// EventKind discriminates the Event variants.
type EventKind uint8

const (
	KindButtonPressed EventKind = iota
	KindButtonReleased
	KindSteering
	KindThrottle
	KindBrake
	KindClutch
	KindDPad
	KindShifter
	KindDisconnected
)

// Event identifies a change observed between two consecutive WheelState
// snapshots. Events carry no payload; handlers re-query the current state
// from the Wheel they receive.
type Event struct {
	Kind EventKind

	// Button is set for the press/release kinds and zero otherwise.
	Button Button
}

// ButtonPressed is the event fired when b transitions to held.
func ButtonPressed(b Button) Event {
	return Event{Kind: KindButtonPressed, Button: b}
}

// ButtonReleased is the event fired when b transitions to released.
func ButtonReleased(b Button) Event {
	return Event{Kind: KindButtonReleased, Button: b}
}

// Value and lifecycle events.
var (
	Steering     = Event{Kind: KindSteering}
	Throttle     = Event{Kind: KindThrottle}
	Brake        = Event{Kind: KindBrake}
	Clutch       = Event{Kind: KindClutch}
	DPad         = Event{Kind: KindDPad}
	Shifter      = Event{Kind: KindShifter}
	Disconnected = Event{Kind: KindDisconnected}
)

// Handler is invoked synchronously on the poll goroutine. Handlers are
// expected to be short; long work delays every following event and the next
// poll cycle.
type Handler func(*Wheel)

// Registration is a token returned by RegisterEventHandler, usable to remove
// the handler again.
type Registration struct {
	event Event
	id    uint64
}

type registration struct {
	id uint64
	fn Handler
}

// registry maps an event to the ordered list of its handlers. Insertion
// order is dispatch order, and registering the same handler twice invokes it
// twice.
type registry struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[Event][]registration
}

func newRegistry() *registry {
	return &registry{handlers: make(map[Event][]registration)}
}

func (r *registry) register(e Event, fn Handler) Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.handlers[e] = append(r.handlers[e], registration{id: r.nextID, fn: fn})
	return Registration{event: e, id: r.nextID}
}

func (r *registry) remove(t Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	regs := r.handlers[t.event]
	for i, reg := range regs {
		if reg.id == t.id {
			r.handlers[t.event] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// handlersFor returns the handlers registered for e, in registration order.
// The returned slice is a copy and safe to iterate while handlers register
// or remove concurrently.
func (r *registry) handlersFor(e Event) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	regs := r.handlers[e]
	if len(regs) == 0 {
		return nil
	}
	fns := make([]Handler, len(regs))
	for i, reg := range regs {
		fns[i] = reg.fn
	}
	return fns
}
