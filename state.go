package g29

// Button identifies a single physical control on the wheel rim or the
// attached shifter unit.
type Button uint8

const (
	ButtonCross Button = iota
	ButtonSquare
	ButtonCircle
	ButtonTriangle
	ButtonRightPaddle
	ButtonLeftPaddle
	ButtonR2
	ButtonL2
	ButtonShare
	ButtonOptions
	ButtonR3
	ButtonL3
	ButtonPlus
	ButtonMinus
	ButtonSpinnerRight
	ButtonSpinnerLeft
	ButtonSpinner
	ButtonPlayStation
	ButtonShifterStick
	buttonCount
)

var buttonNames = [...]string{
	"cross", "square", "circle", "triangle",
	"right paddle", "left paddle", "r2", "l2",
	"share", "options", "r3", "l3",
	"plus", "minus", "spinner right", "spinner left",
	"spinner", "playstation", "shifter stick",
}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return "unknown"
}

// ButtonMask is the set of buttons held in a single WheelState snapshot.
type ButtonMask uint32

// Has reports whether b is held in the mask.
func (m ButtonMask) Has(b Button) bool {
	return m&(1<<b) != 0
}

// DpadPosition is the position of the directional pad.
type DpadPosition uint8

const (
	DpadUp DpadPosition = iota
	DpadUpRight
	DpadRight
	DpadDownRight
	DpadDown
	DpadDownLeft
	DpadLeft
	DpadUpLeft
	DpadNeutral
)

var dpadNames = [...]string{
	"up", "up-right", "right", "down-right",
	"down", "down-left", "left", "up-left", "neutral",
}

func (d DpadPosition) String() string {
	if int(d) < len(dpadNames) {
		return dpadNames[d]
	}
	return "unknown"
}

// Gear is the position of the H-pattern gear selector.
type Gear uint8

const (
	GearNeutral Gear = iota
	GearFirst
	GearSecond
	GearThird
	GearFourth
	GearFifth
	GearSixth
	GearReverse
)

var gearNames = [...]string{"N", "1", "2", "3", "4", "5", "6", "R"}

func (g Gear) String() string {
	if int(g) < len(gearNames) {
		return gearNames[g]
	}
	return "unknown"
}

// Led is a bitmask of the rev indicator LEDs above the wheel hub. Values
// combine with the | operator.
type Led uint8

const (
	LedNone      Led = 0x00
	LedGreenOne  Led = 0x01
	LedGreenTwo  Led = 0x02
	LedOrangeOne Led = 0x04
	LedOrangeTwo Led = 0x08
	LedRed       Led = 0x10
	LedAll       Led = 0x1f
)

// WheelState is an immutable snapshot of every control on the wheel. A new
// snapshot is produced for each decoded input report; values are always
// within their documented ranges.
type WheelState struct {
	// Steering is the wheel rotation, -1 (full left) to 1 (full right),
	// combining the coarse and fine halves of the 16 bit axis.
	Steering float64

	// SteeringFine is the raw low byte of the steering axis, for callers
	// that want sub-degree movement without the normalized value.
	SteeringFine uint8

	// Pedals, 0 (released) to 1 (fully pressed).
	Throttle float64
	Brake    float64
	Clutch   float64

	Buttons ButtonMask
	Dpad    DpadPosition
	Gear    Gear

	// Raw shifter stick coordinates, as reported by the shifter unit.
	ShifterX uint8
	ShifterY uint8
}

// Pressed reports whether b is held in this snapshot.
func (s WheelState) Pressed(b Button) bool {
	return s.Buttons.Has(b)
}
