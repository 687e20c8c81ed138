package g29

import (
	"reflect"
	"testing"
)

func TestDiffIdenticalStates(t *testing.T) {
	states := []WheelState{
		{},
		{Throttle: 0.5, Steering: -0.25, Buttons: 1 << ButtonCross},
		{Gear: GearThird, Dpad: DpadLeft, Brake: 1},
	}
	for _, s := range states {
		if events := diffStates(s, s); len(events) != 0 {
			t.Errorf("diffStates(s, s) = %v, want none", events)
		}
	}
}

func TestDiffAxes(t *testing.T) {
	tests := []struct {
		name string
		prev WheelState
		cur  WheelState
		want []Event
	}{
		{
			"throttle above threshold",
			WheelState{},
			WheelState{Throttle: 0.5},
			[]Event{Throttle},
		},
		{
			"throttle below threshold",
			WheelState{},
			WheelState{Throttle: 0.005},
			nil,
		},
		{
			"steering",
			WheelState{},
			WheelState{Steering: -0.2},
			[]Event{Steering},
		},
		{
			"brake and clutch",
			WheelState{},
			WheelState{Brake: 0.3, Clutch: 1},
			[]Event{Brake, Clutch},
		},
		{
			"dpad",
			WheelState{Dpad: DpadNeutral},
			WheelState{Dpad: DpadUp},
			[]Event{DPad},
		},
		{
			"gear change",
			WheelState{Gear: GearNeutral},
			WheelState{Gear: GearFirst},
			[]Event{Shifter},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diffStates(tt.prev, tt.cur); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("diffStates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiffButtonEdges(t *testing.T) {
	released := WheelState{}
	pressed := WheelState{Buttons: 1 << ButtonCross}

	if got, want := diffStates(released, pressed), []Event{ButtonPressed(ButtonCross)}; !reflect.DeepEqual(got, want) {
		t.Errorf("press: diffStates() = %v, want %v", got, want)
	}
	if got, want := diffStates(pressed, released), []Event{ButtonReleased(ButtonCross)}; !reflect.DeepEqual(got, want) {
		t.Errorf("release: diffStates() = %v, want %v", got, want)
	}
}

// Releases come before presses, then the axes in their declared order.
func TestDiffOrdering(t *testing.T) {
	prev := WheelState{
		Buttons:  1 << ButtonSquare,
		Throttle: 0.2,
	}
	cur := WheelState{
		Buttons:  1 << ButtonCross,
		Steering: 0.5,
		Throttle: 0.8,
		Clutch:   0.4,
		Dpad:     DpadDown,
		Gear:     GearSecond,
	}

	want := []Event{
		ButtonReleased(ButtonSquare),
		ButtonPressed(ButtonCross),
		Steering,
		Throttle,
		Clutch,
		DPad,
		Shifter,
	}
	if got := diffStates(prev, cur); !reflect.DeepEqual(got, want) {
		t.Errorf("diffStates() = %v, want %v", got, want)
	}
}
