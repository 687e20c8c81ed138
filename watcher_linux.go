//go:build linux

package g29

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Wheels surface as hidraw nodes under /dev.
const devDir = "/dev"

type linuxWatcher struct {
	mu         sync.Mutex
	ctx        context.Context
	cancelFunc context.CancelFunc
	transport  Transport
	known      map[string]bool
	events     chan HotplugEvent
	errs       chan error
	fd         int
}

func newLinuxWatcher(events chan HotplugEvent, errs chan error) (*linuxWatcher, error) {
	lw := &linuxWatcher{
		transport: NewHIDTransport(),
		known:     make(map[string]bool),
		events:    events,
		errs:      errs,
	}
	lw.ctx, lw.cancelFunc = context.WithCancel(context.Background())

	// Report wheels that are already attached.
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		lw.handleNode(unix.IN_CREATE, entry.Name())
	}

	fd, err := unix.InotifyInit()
	if err != nil {
		return nil, fmt.Errorf("g29: inotify init: %w", err)
	}
	lw.fd = fd
	if _, err := unix.InotifyAddWatch(fd, devDir, unix.IN_CREATE|unix.IN_DELETE); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("g29: inotify add watch: %w", err)
	}

	go lw.watch()
	return lw, nil
}

func (lw *linuxWatcher) watch() {
	defer close(lw.events)
	buf := make([]byte, 4096)
	for {
		n, err := unix.Read(lw.fd, buf)
		if err != nil {
			select {
			case <-lw.ctx.Done():
			default:
				lw.errs <- fmt.Errorf("g29: inotify read: %w", err)
			}
			return
		}

		var offset uint32
		for offset+unix.SizeofInotifyEvent <= uint32(n) {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			name := buf[offset+unix.SizeofInotifyEvent : offset+unix.SizeofInotifyEvent+event.Len]
			lw.handleNode(event.Mask, string(bytes.TrimRight(name, "\x00")))
			offset += unix.SizeofInotifyEvent + event.Len
		}
	}
}

func (lw *linuxWatcher) handleNode(mask uint32, name string) {
	if !strings.HasPrefix(name, "hidraw") {
		return
	}
	path := devDir + "/" + name

	switch {
	case mask&unix.IN_CREATE != 0:
		if !lw.isWheel(path) {
			return
		}
		lw.mu.Lock()
		lw.known[path] = true
		lw.mu.Unlock()
		lw.emit(HotplugEvent{Type: WheelAttached, Path: path})
	case mask&unix.IN_DELETE != 0:
		lw.mu.Lock()
		known := lw.known[path]
		delete(lw.known, path)
		lw.mu.Unlock()
		if known {
			lw.emit(HotplugEvent{Type: WheelDetached, Path: path})
		}
	}
}

func (lw *linuxWatcher) isWheel(path string) bool {
	for _, info := range lw.transport.Wheels() {
		if info.Path == path {
			return true
		}
	}
	return false
}

// emit never blocks; events are dropped when the consumer falls behind, and
// nothing is emitted once the watcher has been stopped.
func (lw *linuxWatcher) emit(e HotplugEvent) {
	select {
	case <-lw.ctx.Done():
		return
	default:
	}
	select {
	case lw.events <- e:
	default:
	}
}

func (lw *linuxWatcher) stop() error {
	lw.cancelFunc()
	// Closing the descriptor unblocks the inotify read.
	return unix.Close(lw.fd)
}
