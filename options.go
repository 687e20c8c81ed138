package g29

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is the pause between poll cycles when the wheel
	// reported no new data.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultReadTimeout bounds a single blocking report read. It also
	// bounds how long Disconnect may wait for the poll loop to notice.
	DefaultReadTimeout = 100 * time.Millisecond

	// DefaultRange is the wheel operating range in degrees.
	DefaultRange = 900

	defaultAutoCenterStrength = 0x07
	defaultTurnMultiplier     = 0xff
)

// Options configures a connection. The zero value connects to the first
// attached wheel with force feedback and auto-centering enabled. Options are
// not read again after Connect returns.
type Options struct {
	// Path is the HID device path. Empty means auto-discover the first
	// attached wheel by vendor/product id.
	Path string

	// PollInterval is the pause between cycles when no report arrived.
	PollInterval time.Duration

	// ReadTimeout bounds each blocking report read.
	ReadTimeout time.Duration

	// NoForceFeedback disables the force feedback command path.
	NoForceFeedback bool

	// NoAutoCenter leaves the auto-centering spring off on connect.
	NoAutoCenter bool

	// AutoCenterStrength is the auto-center force, 0x00..0x0f.
	AutoCenterStrength byte

	// TurnMultiplier is the rate the auto-center force rises as the wheel
	// turns away from center, 0x00..0xff.
	TurnMultiplier byte

	// Range is the wheel operating range in degrees, clamped to 40..900.
	Range uint16

	// Transport overrides the hidapi transport. Nil means the real one.
	Transport Transport

	// Logger receives debug output. Nil means no logging.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	if o.AutoCenterStrength == 0 {
		o.AutoCenterStrength = defaultAutoCenterStrength
	}
	if o.TurnMultiplier == 0 {
		o.TurnMultiplier = defaultTurnMultiplier
	}
	if o.Range == 0 {
		o.Range = DefaultRange
	}
	if o.Transport == nil {
		o.Transport = NewHIDTransport()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
