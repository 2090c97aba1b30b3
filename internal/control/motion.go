package control

import (
	"time"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/logging"
	"github.com/screenshare/agent/internal/streamer"
)

// AOSP motion/key action codes (android/input.h), grounded in
// the NDK input constant values.
const (
	actionDown        int32 = 0
	actionUp          int32 = 1
	actionMove        int32 = 2
	actionCancel      int32 = 3
	actionOutside     int32 = 4
	actionPointerDown int32 = 5
	actionPointerUp   int32 = 6
	actionHoverMove   int32 = 7
	actionScroll      int32 = 8
	actionHoverEnter  int32 = 9
	actionHoverExit   int32 = 10
	actionButtonPress int32 = 11
	actionButtonRelease int32 = 12

	actionMask               int32 = 0xff
	actionPointerIndexShift  uint  = 8

	keyActionDown int32 = 0
	keyActionUp   int32 = 1

	keycodeWakeup int32 = 224 // AKEYCODE_WAKEUP
)

// processMotionEvent rotates the peer's canonical-orientation
// coordinates into the current display orientation, expands multi-pointer
// DOWN/UP sequences, and injects the result, waking the display or
// refreshing orientation where the gesture calls for it.
func (c *Controller) processMotionEvent(m *MotionEventMessage) error {
	info, err := c.displays.GetDisplayInfo(m.DisplayID)
	if err != nil || !info.IsValid() {
		logging.Warnf("control: motion event for unknown display %d", m.DisplayID)
		return nil
	}

	action := m.Action & actionMask

	switch action {
	case actionDown:
		if c.motionStartMillis == 0 {
			c.motionStartMillis = wireNowMillis()
		}
	case actionUp, actionCancel:
	default:
		if action != actionHoverMove && action != actionScroll && c.motionStartMillis == 0 {
			logging.Errorf("control: motion event sequence %d did not start with ACTION_DOWN", action)
		}
	}

	source := motionSource(action, m.ActionButton, m.ButtonState)
	w, h := info.NaturalSize()
	pointers := make([]accessor.Pointer, len(m.Pointers))
	for i, p := range m.Pointers {
		adjusted := streamer.AdjustPoint(streamer.Point{X: p.X, Y: p.Y}, w, h, info.Rotation)
		pointers[i] = accessor.Pointer{ID: p.PointerID, X: adjusted.X, Y: adjusted.Y, Axes: p.Axes}
	}

	events := expandMotionEvents(pointers, m.Action, m.ActionButton, m.ButtonState, source, c.motionStartMillis)
	for _, ev := range events {
		if err := c.injectMotionEvent(m.DisplayID, ev); err != nil {
			return err
		}
	}

	if action == actionUp {
		c.motionStartMillis = 0
		if err := c.streamers.RefreshVideoOrientation(m.DisplayID, false); err != nil {
			logging.Warnf("control: orientation refresh after ACTION_UP failed: %v", err)
		}
	}
	if action == actionDown && !info.IsOn() {
		if err := c.wakeUpDevice(); err != nil {
			return err
		}
	}
	return nil
}

// motionSource picks the injection source: hover-move
// or any mouse button activity goes through the mouse source, everything
// else is the combined stylus|touchscreen source.
func motionSource(action, actionButton, buttonState int32) accessor.InputSource {
	if action == actionHoverMove || actionButton != 0 || buttonState != 0 {
		return accessor.SourceMouse
	}
	return accessor.SourceStylusTouchscreen
}

// expandMotionEvents performs the multi-pointer
// DOWN/UP-to-single-pointer-event conversion ("InputManager doesn't allow
// ACTION_DOWN and ACTION_UP events with multiple pointers"), and otherwise
// passes every other action straight through as one event.
func expandMotionEvents(pointers []accessor.Pointer, rawAction, actionButton, buttonState int32, source accessor.InputSource, downTimeMillis int64) []accessor.InputEvent {
	action := rawAction & actionMask
	base := func(action int32, count int) accessor.InputEvent {
		return accessor.InputEvent{
			Kind:         accessor.InputEventMotion,
			Action:       action,
			DownTime:     downTimeMillis,
			Source:       source,
			Pointers:     append([]accessor.Pointer{}, pointers[:count]...),
			ButtonState:  buttonState,
			ActionButton: actionButton,
		}
	}

	switch action {
	case actionDown:
		if len(pointers) <= 1 {
			return []accessor.InputEvent{base(actionDown, len(pointers))}
		}
		if actionButton != 0 {
			return []accessor.InputEvent{base(actionDown, 1), base(actionButtonPress, 1)}
		}
		events := make([]accessor.InputEvent, 0, len(pointers))
		events = append(events, base(actionDown, 1))
		for i := 1; i < len(pointers); i++ {
			pointerAction := actionPointerDown | int32(i)<<actionPointerIndexShift
			events = append(events, base(pointerAction, i+1))
		}
		return events
	case actionUp:
		if len(pointers) <= 1 {
			return []accessor.InputEvent{base(actionUp, len(pointers))}
		}
		if actionButton != 0 {
			return []accessor.InputEvent{base(actionButtonRelease, len(pointers)), base(actionUp, 1)}
		}
		events := make([]accessor.InputEvent, 0, len(pointers))
		for i := len(pointers) - 1; i >= 1; i-- {
			pointerAction := actionPointerUp | int32(i)<<actionPointerIndexShift
			events = append(events, base(pointerAction, i+1))
		}
		events = append(events, base(actionUp, 1))
		return events
	default:
		return []accessor.InputEvent{base(rawAction, len(pointers))}
	}
}

// injectMotionEvent tries the uinput/Wayland fast path first (a
// single-pointer mouse-source event, button state included, goes to the
// virtual mouse; a DOWN/MOVE/UP event with no button state goes to the
// virtual touchscreen as its last pointer), falling back to
// accessor.InputManager otherwise.
func (c *Controller) injectMotionEvent(displayID int32, ev accessor.InputEvent) error {
	action := ev.Action & actionMask
	if c.vinput != nil && len(ev.Pointers) == 1 && ev.Source == accessor.SourceMouse &&
		action != actionScroll {
		p := ev.Pointers[0]
		buttons := ev.ButtonState
		if action == actionUp || action == actionCancel || action == actionHoverMove {
			buttons = 0
		}
		handled, err := c.vinput.WriteMouseEvent(displayID, p.X, p.Y, buttons)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	if c.vinput != nil && len(ev.Pointers) >= 1 &&
		(action == actionDown || action == actionUp || action == actionMove) &&
		action != actionHoverMove && action != actionHoverExit && action != actionScroll &&
		ev.ActionButton == 0 && ev.ButtonState == 0 {
		p := ev.Pointers[len(ev.Pointers)-1]
		down := action != actionUp
		handled, err := c.vinput.WriteTouchEvent(displayID, p.ID, p.X, p.Y, down)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	return c.input.InjectInputEvent(ev, accessor.SyncNone)
}

func (c *Controller) wakeUpDevice() error {
	return c.processKeyEvent(&KeyEventMessage{Action: ActionDownAndUp, KeyCode: keycodeWakeup})
}

func wireNowMillis() int64 { return time.Now().UnixMilli() }
