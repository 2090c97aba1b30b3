// Package vinput selects and owns the virtual input device backing
// control.Deps.VInput: the uinput kernel fast path where available, the
// Wayland virtual-pointer/virtual-keyboard protocols otherwise.
package vinput

import "io"

// Device is the capability control.VirtualInputDevices needs, duplicated
// here (rather than imported) so this package has no dependency on
// internal/control; the two interfaces are structurally identical and Go
// assigns between them without an explicit conversion.
type Device interface {
	io.Closer
	WriteTouchEvent(displayID, pointerID, x, y int32, down bool) (bool, error)
	WriteMouseEvent(displayID, x, y int32, buttonState int32) (bool, error)
	WriteKeyEvent(keyCode, action int32, eventTimeNanos int64) error
}
