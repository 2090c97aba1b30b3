//go:build !linux

package vinput

import "github.com/screenshare/agent/internal/vinput/wlinput"

// New has no uinput backend outside Linux; the Wayland virtual-input
// protocols are the only option.
func New(displayID, width, height int32) (Device, error) {
	return wlinput.New(displayID, width, height)
}
