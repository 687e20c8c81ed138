package g29

import "math"

// Input report framing. The wheel reports a fixed 13 byte frame in native
// mode: a report id byte followed by the 12 byte payload documented below.
const (
	inputReportID   = 0x01
	inputReportSize = 13
)

// Payload layout (offsets relative to the byte after the report id):
//
//	0     dpad in the low nibble (0..7 clockwise from up, 8 = neutral),
//	      cross/square/circle/triangle in bits 4..7
//	1     right paddle, left paddle, r2, l2, share, options, r3, l3
//	2     gear selector one-hot in bits 0..6, plus button in bit 7
//	3     minus, spinner right, spinner left, spinner button, playstation
//	4,5   steering, little-endian uint16, 0 = full left
//	6,7,8 throttle, brake, clutch, 255 = released
//	9,10  shifter stick x, y
//	11    bit 0 set while the shifter stick is pressed down
const (
	offButtons0 = iota
	offButtons1
	offGear
	offButtons3
	offSteerLo
	offSteerHi
	offThrottle
	offBrake
	offClutch
	offShifterX
	offShifterY
	offShifterPress
)

// DecodeReport decodes a raw input report into a WheelState snapshot. It
// returns ErrReportLength for frames shorter than the native report size and
// ErrUnknownReportID when the leading byte is not the wheel's report id.
// Numeric fields are clamped to their documented ranges.
func DecodeReport(raw []byte) (WheelState, error) {
	if len(raw) < inputReportSize {
		return WheelState{}, ErrReportLength
	}
	if raw[0] != inputReportID {
		return WheelState{}, ErrUnknownReportID
	}
	p := raw[1:inputReportSize]

	var buttons ButtonMask
	set := func(b Button, held bool) {
		if held {
			buttons |= 1 << b
		}
	}

	set(ButtonCross, p[offButtons0]&0x10 != 0)
	set(ButtonSquare, p[offButtons0]&0x20 != 0)
	set(ButtonCircle, p[offButtons0]&0x40 != 0)
	set(ButtonTriangle, p[offButtons0]&0x80 != 0)

	set(ButtonRightPaddle, p[offButtons1]&0x01 != 0)
	set(ButtonLeftPaddle, p[offButtons1]&0x02 != 0)
	set(ButtonR2, p[offButtons1]&0x04 != 0)
	set(ButtonL2, p[offButtons1]&0x08 != 0)
	set(ButtonShare, p[offButtons1]&0x10 != 0)
	set(ButtonOptions, p[offButtons1]&0x20 != 0)
	set(ButtonR3, p[offButtons1]&0x40 != 0)
	set(ButtonL3, p[offButtons1]&0x80 != 0)

	set(ButtonPlus, p[offGear]&0x80 != 0)

	set(ButtonMinus, p[offButtons3]&0x01 != 0)
	set(ButtonSpinnerRight, p[offButtons3]&0x02 != 0)
	set(ButtonSpinnerLeft, p[offButtons3]&0x04 != 0)
	set(ButtonSpinner, p[offButtons3]&0x08 != 0)
	set(ButtonPlayStation, p[offButtons3]&0x10 != 0)

	set(ButtonShifterStick, p[offShifterPress]&0x01 != 0)

	steer := uint16(p[offSteerLo]) | uint16(p[offSteerHi])<<8

	return WheelState{
		Steering:     clamp(float64(steer)/math.MaxUint16*2-1, -1, 1),
		SteeringFine: p[offSteerLo],
		Throttle:     pedal(p[offThrottle]),
		Brake:        pedal(p[offBrake]),
		Clutch:       pedal(p[offClutch]),
		Buttons:      buttons,
		Dpad:         decodeDpad(p[offButtons0]),
		Gear:         decodeGear(p[offGear]),
		ShifterX:     p[offShifterX],
		ShifterY:     p[offShifterY],
	}, nil
}

// pedal inverts and normalizes a pedal axis: the hardware reports 255 for a
// released pedal and 0 for a fully pressed one.
func pedal(v byte) float64 {
	return 1 - float64(v)/255
}

func decodeDpad(b byte) DpadPosition {
	if d := DpadPosition(b & 0x0f); d <= DpadUpLeft {
		return d
	}
	return DpadNeutral
}

func decodeGear(b byte) Gear {
	switch b & 0x7f {
	case 0x01:
		return GearFirst
	case 0x02:
		return GearSecond
	case 0x04:
		return GearThird
	case 0x08:
		return GearFourth
	case 0x10:
		return GearFifth
	case 0x20:
		return GearSixth
	case 0x40:
		return GearReverse
	}
	return GearNeutral
}

// ForceFeedbackCommand is a force feedback effect to apply to the wheel
// motors. Encoding clamps out-of-range magnitudes instead of failing: a
// rejected command would leave the wheel applying a stale force.
type ForceFeedbackCommand interface {
	frames() [][]byte
}

// ConstantForce pushes the wheel with a fixed force. Magnitude is -1 (full
// left) to 1 (full right).
type ConstantForce struct {
	Magnitude float64
}

func (c ConstantForce) frames() [][]byte {
	level := byte(math.Round((clamp(c.Magnitude, -1, 1) + 1) / 2 * 255))
	return [][]byte{{0x11, 0x08, level, 0x00, 0x00, 0x00, 0x00}}
}

// Friction resists wheel rotation. Coefficient is 0 (none) to 1 (maximum).
type Friction struct {
	Coefficient float64
}

func (f Friction) frames() [][]byte {
	// The hardware takes friction in 8 steps of 7.
	step := scaleByte(f.Coefficient, 7) * 7
	return [][]byte{{0x21, 0x02, step, 0x00, step, 0x00, 0x00}}
}

// Spring pulls the wheel towards CenterOffset (-1..1) with stiffness
// Coefficient (0..1).
type Spring struct {
	Coefficient  float64
	CenterOffset float64
}

func (s Spring) frames() [][]byte {
	off := int8(math.Round(clamp(s.CenterOffset, -1, 1) * 127))
	return [][]byte{{0x01, 0x0b, byte(off), scaleByte(s.Coefficient, 7), 0x00, 0x00, 0x00}}
}

// AutoCenter enables the wheel's self-centering spring with Strength 0..1.
// A strength of zero disables auto-centering.
type AutoCenter struct {
	Strength float64
}

func (a AutoCenter) frames() [][]byte {
	if a.Strength <= 0 {
		return [][]byte{autoCenterOffFrame()}
	}
	s := scaleByte(a.Strength, 0x0f)
	return autoCenterFrames(s, defaultTurnMultiplier)
}

// Stop turns off every active force effect.
type Stop struct{}

func (Stop) frames() [][]byte {
	return [][]byte{stopForcesFrame()}
}

// EncodeForceFeedback encodes a command into the output report frames to
// write to the wheel, in order. Encoding the same command twice yields
// identical bytes.
func EncodeForceFeedback(cmd ForceFeedbackCommand) [][]byte {
	return cmd.frames()
}

// nativeModeFrames is the init sequence that switches the wheel out of its
// compatibility mode, from the kernel lg4ff driver.
func nativeModeFrames() [][]byte {
	return [][]byte{
		{0xf8, 0x0a, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0xf8, 0x09, 0x05, 0x01, 0x01, 0x00, 0x00},
	}
}

func ledFrame(mask Led) []byte {
	return []byte{0xf8, 0x12, byte(mask), 0x00, 0x00, 0x00, 0x01}
}

func rangeFrame(degrees uint16) []byte {
	d := clampRange(degrees)
	return []byte{0xf8, 0x81, byte(d & 0xff), byte(d >> 8), 0x00, 0x00, 0x00}
}

func autoCenterFrames(strength, turnMultiplier byte) [][]byte {
	return [][]byte{
		{0x14, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0xfe, 0x0d, strength, strength, turnMultiplier, 0x00, 0x00},
	}
}

func autoCenterOffFrame() []byte {
	return []byte{0xf5, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
}

func stopForcesFrame() []byte {
	return []byte{0xf3, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
}

// frictionFrame is the raw friction command used by ForceFriction for parity
// with the hardware's per-motor interface.
func frictionFrame(left, right byte) []byte {
	return []byte{0x21, 0x02, left, 0x00, right, 0x00, 0x00}
}
