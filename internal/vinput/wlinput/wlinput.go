// Package wlinput implements the control.VirtualInputDevices fast path on
// Wayland compositors that expose zwlr_virtual_pointer_v1 and
// zwp_virtual_keyboard_v1, using github.com/bnema/wayland-virtual-input-go.
// Unlike uinputdev this needs no /dev/uinput access or root privileges, at
// the cost of only relative pointer motion and a single active contact —
// multi-pointer gestures fall back to accessor.InputManager.
package wlinput

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/wayland-virtual-input-go/virtual_keyboard"
	"github.com/bnema/wayland-virtual-input-go/virtual_pointer"
	"github.com/pkg/errors"

	"github.com/screenshare/agent/internal/logging"
)

const keyActionDown = 0

// Device drives one Wayland virtual pointer and one virtual keyboard,
// scoped to a single display.
type Device struct {
	displayID int32
	width     int32
	height    int32

	pointerManager  *virtual_pointer.VirtualPointerManager
	pointer         *virtual_pointer.VirtualPointer
	keyboardManager *virtual_keyboard.VirtualKeyboardManager
	keyboard        *virtual_keyboard.VirtualKeyboard

	mu           sync.Mutex
	curX         float64
	curY         float64
	touchDown    bool
	mouseButtons int32
}

// Android MotionEvent button-state bits mapped to evdev button codes the
// virtual-pointer protocol carries verbatim.
var mouseButtons = []struct {
	mask int32
	code uint32
}{
	{1 << 0, 0x110}, // primary -> BTN_LEFT
	{1 << 1, 0x111}, // secondary -> BTN_RIGHT
	{1 << 2, 0x112}, // tertiary -> BTN_MIDDLE
}

// New connects to the Wayland compositor and creates a virtual pointer and
// keyboard sized to the given display.
func New(displayID, width, height int32) (*Device, error) {
	ctx := context.Background()

	pm, err := virtual_pointer.NewVirtualPointerManager(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "wlinput: create pointer manager")
	}
	pointer, err := pm.CreatePointer()
	if err != nil {
		pm.Close()
		return nil, errors.Wrap(err, "wlinput: create pointer")
	}
	km, err := virtual_keyboard.NewVirtualKeyboardManager(ctx)
	if err != nil {
		pointer.Close()
		pm.Close()
		return nil, errors.Wrap(err, "wlinput: create keyboard manager")
	}
	keyboard, err := km.CreateKeyboard()
	if err != nil {
		km.Close()
		pointer.Close()
		pm.Close()
		return nil, errors.Wrap(err, "wlinput: create keyboard")
	}

	return &Device{
		displayID:       displayID,
		width:           width,
		height:          height,
		pointerManager:  pm,
		pointer:         pointer,
		keyboardManager: km,
		keyboard:        keyboard,
		curX:            float64(width) / 2,
		curY:            float64(height) / 2,
	}, nil
}

// Close tears down the virtual pointer and keyboard.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	record(d.keyboard.Close())
	record(d.keyboardManager.Close())
	record(d.pointer.Close())
	record(d.pointerManager.Close())
	return firstErr
}

// WriteKeyEvent injects a keyboard key event, translating the Android
// keycode to the matching Linux evdev keycode.
func (d *Device) WriteKeyEvent(keyCode, action int32, eventTimeNanos int64) error {
	evKeyCode, ok := keycodeMapping[keyCode]
	if !ok {
		logging.Warnf("wlinput: unsupported android keycode %d", keyCode)
		return nil
	}
	state := virtual_keyboard.KeyStateReleased
	if action == keyActionDown {
		state = virtual_keyboard.KeyStatePressed
	}
	return d.keyboard.Key(time.Unix(0, eventTimeNanos), uint32(evKeyCode), state)
}

// WriteTouchEvent injects one pointer contact as relative mouse motion plus
// a button press/release. Only pointer 0 is supported: the virtual pointer
// protocol exposes a single cursor, so any additional simultaneous contact
// returns false and the caller falls back to accessor.InputManager.
func (d *Device) WriteTouchEvent(displayID, pointerID, x, y int32, down bool) (bool, error) {
	if displayID != d.displayID || pointerID != 0 {
		return false, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	targetX, targetY := float64(x), float64(y)
	dx, dy := targetX-d.curX, targetY-d.curY
	d.curX, d.curY = targetX, targetY

	if dx != 0 || dy != 0 {
		d.pointer.MoveRelative(dx, dy)
	}

	now := time.Now()
	switch {
	case down && !d.touchDown:
		d.touchDown = true
		d.pointer.Button(now, virtual_pointer.BTN_LEFT, virtual_pointer.BUTTON_STATE_PRESSED)
	case !down && d.touchDown:
		d.touchDown = false
		d.pointer.Button(now, virtual_pointer.BTN_LEFT, virtual_pointer.BUTTON_STATE_RELEASED)
	}
	d.pointer.Frame()
	return true, nil
}

// WriteMouseEvent moves the cursor toward (x, y) via relative motion and
// applies buttonState, pressing and releasing buttons on mask
// transitions.
func (d *Device) WriteMouseEvent(displayID, x, y int32, buttonState int32) (bool, error) {
	if displayID != d.displayID {
		return false, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	targetX, targetY := float64(x), float64(y)
	dx, dy := targetX-d.curX, targetY-d.curY
	d.curX, d.curY = targetX, targetY
	if dx != 0 || dy != 0 {
		d.pointer.MoveRelative(dx, dy)
	}

	now := time.Now()
	for _, b := range mouseButtons {
		was := d.mouseButtons&b.mask != 0
		is := buttonState&b.mask != 0
		if was == is {
			continue
		}
		state := virtual_pointer.ButtonStateReleased
		if is {
			state = virtual_pointer.ButtonStatePressed
		}
		d.pointer.Button(now, b.code, state)
	}
	d.mouseButtons = buttonState
	d.pointer.Frame()
	return true, nil
}
