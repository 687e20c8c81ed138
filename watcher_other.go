//go:build !linux

package g29

// Hotplug watching is linux-only for now.
func newLinuxWatcher(chan HotplugEvent, chan error) (hotplug, error) {
	return nil, ErrOsNotSupported
}
