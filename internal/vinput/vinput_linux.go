//go:build linux

package vinput

import (
	"github.com/screenshare/agent/internal/logging"
	"github.com/screenshare/agent/internal/vinput/uinputdev"
	"github.com/screenshare/agent/internal/vinput/wlinput"
)

// New tries the uinput kernel backend first — it needs /dev/uinput access
// but works under both X11 and Wayland session compositors — and falls
// back to the Wayland virtual-input protocols when uinput is unavailable
// (e.g. running unprivileged under a Wayland-only sandbox).
func New(displayID, width, height int32) (Device, error) {
	if dev, err := uinputdev.New(displayID, width, height); err == nil {
		return dev, nil
	} else {
		logging.Warnf("vinput: uinput backend unavailable (%v), trying wayland", err)
	}
	return wlinput.New(displayID, width, height)
}
