package g29

import "math"

// axisEpsilon is the minimum change on a normalized axis that produces an
// event. Smaller deltas are report noise and are suppressed.
const axisEpsilon = 0.01

// diffStates compares two snapshots and returns the events the transition
// produces, in a fixed order: button releases, button presses (both in
// Button declaration order), then axis changes in the order Steering,
// Throttle, Brake, Clutch, DPad, Shifter. Identical snapshots produce no
// events.
func diffStates(prev, cur WheelState) []Event {
	var events []Event

	for b := Button(0); b < buttonCount; b++ {
		if prev.Buttons.Has(b) && !cur.Buttons.Has(b) {
			events = append(events, ButtonReleased(b))
		}
	}
	for b := Button(0); b < buttonCount; b++ {
		if !prev.Buttons.Has(b) && cur.Buttons.Has(b) {
			events = append(events, ButtonPressed(b))
		}
	}

	if axisChanged(prev.Steering, cur.Steering) {
		events = append(events, Steering)
	}
	if axisChanged(prev.Throttle, cur.Throttle) {
		events = append(events, Throttle)
	}
	if axisChanged(prev.Brake, cur.Brake) {
		events = append(events, Brake)
	}
	if axisChanged(prev.Clutch, cur.Clutch) {
		events = append(events, Clutch)
	}
	if prev.Dpad != cur.Dpad {
		events = append(events, DPad)
	}
	if prev.Gear != cur.Gear {
		events = append(events, Shifter)
	}

	return events
}

func axisChanged(prev, cur float64) bool {
	return math.Abs(cur-prev) >= axisEpsilon
}
