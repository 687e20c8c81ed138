package g29

import (
	"fmt"
	"time"

	"github.com/sstallion/go-hid"
)

// USB identity of the G29 Driving Force wheel.
const (
	vendorLogitech = 0x046d
	productG29     = 0xc24f
)

// DeviceInfo describes a wheel found by a Transport.
type DeviceInfo struct {
	Path      string
	VendorID  uint16
	ProductID uint16
	Product   string
	Serial    string
}

// Transport is the raw HID boundary the driver core runs on. The production
// implementation wraps hidapi; tests substitute a scripted one through
// Options.Transport.
type Transport interface {
	// Wheels lists the attached compatible wheels.
	Wheels() []DeviceInfo

	// Open opens the device at path. An empty path opens the first
	// compatible wheel, or fails with ErrDeviceNotFound.
	Open(path string) (Device, error)
}

// Device is one open HID handle.
type Device interface {
	// Read reads one input report with a bounded wait. A timeout is not
	// an error: it returns 0 bytes and a nil error.
	Read(p []byte, timeout time.Duration) (int, error)

	// Write writes one output report.
	Write(p []byte) (int, error)

	Close() error
}

type hidTransport struct{}

// NewHIDTransport returns the hidapi-backed Transport used by Connect when
// Options.Transport is nil.
func NewHIDTransport() Transport {
	_ = hid.Init()
	return hidTransport{}
}

func (hidTransport) Wheels() []DeviceInfo {
	var wheels []DeviceInfo
	_ = hid.Enumerate(vendorLogitech, productG29, func(info *hid.DeviceInfo) error {
		// The wheel exposes several interfaces; reports come from the
		// first one.
		if info.UsagePage != 1 && info.InterfaceNbr != 0 {
			return nil
		}
		wheels = append(wheels, DeviceInfo{
			Path:      info.Path,
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
			Product:   info.ProductStr,
			Serial:    info.SerialNbr,
		})
		return nil
	})
	return wheels
}

func (t hidTransport) Open(path string) (Device, error) {
	if path == "" {
		wheels := t.Wheels()
		if len(wheels) == 0 {
			return nil, ErrDeviceNotFound
		}
		path = wheels[0].Path
	}
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("g29: open %s: %w", path, err)
	}
	return hidDevice{dev: dev}, nil
}

type hidDevice struct {
	dev *hid.Device
}

func (h hidDevice) Read(p []byte, timeout time.Duration) (int, error) {
	// hidapi reports a timeout as a zero-length read.
	return h.dev.ReadWithTimeout(p, timeout)
}

func (h hidDevice) Write(p []byte) (int, error) {
	return h.dev.Write(p)
}

func (h hidDevice) Close() error {
	return h.dev.Close()
}
