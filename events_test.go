package g29

import (
	"reflect"
	"testing"
)

func TestRegistryOrder(t *testing.T) {
	r := newRegistry()

	var calls []int
	for i := 1; i <= 3; i++ {
		i := i
		r.register(Throttle, func(*Wheel) { calls = append(calls, i) })
	}

	for _, fn := range r.handlersFor(Throttle) {
		fn(nil)
	}
	if want := []int{1, 2, 3}; !reflect.DeepEqual(calls, want) {
		t.Errorf("call order = %v, want %v", calls, want)
	}
}

func TestRegistryDuplicateHandlers(t *testing.T) {
	r := newRegistry()

	calls := 0
	fn := func(*Wheel) { calls++ }
	r.register(Brake, fn)
	r.register(Brake, fn)

	for _, h := range r.handlersFor(Brake) {
		h(nil)
	}
	if calls != 2 {
		t.Errorf("duplicate handler fired %d times, want 2", calls)
	}
}

func TestRegistryRemove(t *testing.T) {
	r := newRegistry()

	var calls []string
	first := r.register(Steering, func(*Wheel) { calls = append(calls, "first") })
	r.register(Steering, func(*Wheel) { calls = append(calls, "second") })

	r.remove(first)
	for _, fn := range r.handlersFor(Steering) {
		fn(nil)
	}
	if want := []string{"second"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("calls after remove = %v, want %v", calls, want)
	}

	// Removing twice is harmless.
	r.remove(first)
}

func TestRegistryNoHandlers(t *testing.T) {
	r := newRegistry()
	if fns := r.handlersFor(Disconnected); len(fns) != 0 {
		t.Errorf("handlersFor on empty registry = %d handlers, want 0", len(fns))
	}
}

func TestRegistryPerButtonEvents(t *testing.T) {
	r := newRegistry()

	crossFired := false
	r.register(ButtonPressed(ButtonCross), func(*Wheel) { crossFired = true })

	// A different button's press shares the kind but not the event.
	if fns := r.handlersFor(ButtonPressed(ButtonSquare)); len(fns) != 0 {
		t.Fatalf("square press resolved %d handlers, want 0", len(fns))
	}
	for _, fn := range r.handlersFor(ButtonPressed(ButtonCross)) {
		fn(nil)
	}
	if !crossFired {
		t.Error("cross press handler did not fire")
	}
}
