package g29

import "runtime"

// HotplugEventType discriminates hotplug events.
type HotplugEventType uint8

const (
	WheelAttached HotplugEventType = iota
	WheelDetached
)

// HotplugEvent reports a wheel appearing on or vanishing from the system.
type HotplugEvent struct {
	Type HotplugEventType
	Path string
}

type hotplug interface {
	stop() error
}

// Watcher reports wheel attach/detach so callers can connect on plug-in and
// reconnect after a Disconnected event. Watching is independent of a
// connection: the driver never reconnects on its own.
type Watcher struct {
	events chan HotplugEvent
	errs   chan error
	impl   hotplug
}

// NewWatcher starts watching for wheel hotplug. Wheels already attached are
// reported as WheelAttached immediately.
func NewWatcher() (*Watcher, error) {
	w := &Watcher{
		events: make(chan HotplugEvent, 8),
		errs:   make(chan error, 1),
	}
	switch runtime.GOOS {
	case "linux":
		impl, err := newLinuxWatcher(w.events, w.errs)
		if err != nil {
			return nil, err
		}
		w.impl = impl
		return w, nil
	default:
		return nil, ErrOsNotSupported
	}
}

// Events is closed when the watcher stops.
func (w *Watcher) Events() <-chan HotplugEvent { return w.events }

func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops watching and closes the event channel.
func (w *Watcher) Close() error {
	return w.impl.stop()
}
