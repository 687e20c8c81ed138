package g29

import "errors"

var (
	// ErrDeviceNotFound is returned by Connect when no compatible wheel is
	// attached and no explicit device path was given.
	ErrDeviceNotFound = errors.New("g29: no compatible wheel found")

	// ErrHandshakeTimeout is returned by Connect when the wheel does not
	// answer the native mode init sequence with a valid input report.
	ErrHandshakeTimeout = errors.New("g29: wheel did not enter native mode")

	// ErrReportLength is returned by DecodeReport for reports shorter than
	// the fixed frame size.
	ErrReportLength = errors.New("g29: input report too short")

	// ErrUnknownReportID is returned by DecodeReport when the leading
	// report id byte is not recognized.
	ErrUnknownReportID = errors.New("g29: unknown report id")

	// ErrSessionLost marks a terminal I/O failure. The session is closed
	// and the wheel must be reconnected with Connect.
	ErrSessionLost = errors.New("g29: session lost")

	// ErrSessionClosed is returned for operations on a closed session.
	ErrSessionClosed = errors.New("g29: session closed")

	// ErrNotConnected is returned for commands issued after Disconnect.
	ErrNotConnected = errors.New("g29: not connected")

	// ErrForceFeedbackDisabled is returned by SendForceFeedback when the
	// wheel was connected with force feedback disabled.
	ErrForceFeedbackDisabled = errors.New("g29: force feedback disabled")

	// ErrOsNotSupported is returned by NewWatcher on platforms without
	// hotplug support.
	ErrOsNotSupported = errors.New("g29: os is not supported (yet)")
)
