package control

import (
	"errors"
	"time"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/logging"
)

// processKeyEvent injects one keyboard event: ActionDownAndUp is split
// into a DOWN immediately followed by an UP; any other action is
// injected once, literally.
func (c *Controller) processKeyEvent(m *KeyEventMessage) error {
	eventTime := time.Now().UnixNano()
	downAction := m.Action
	if m.Action == ActionDownAndUp {
		downAction = keyActionDown
	}

	if c.vinput != nil {
		if err := c.vinput.WriteKeyEvent(m.KeyCode, downAction, eventTime); err != nil {
			return err
		}
		if m.Action == ActionDownAndUp {
			return c.vinput.WriteKeyEvent(m.KeyCode, keyActionUp, eventTime)
		}
		return nil
	}

	ev := accessor.InputEvent{
		Kind:      accessor.InputEventKey,
		Action:    downAction,
		KeyCode:   m.KeyCode,
		MetaState: m.MetaState,
		Source:    accessor.SourceKeyboard,
		EventTime: eventTime,
	}
	if err := c.input.InjectInputEvent(ev, accessor.SyncNone); err != nil {
		return err
	}
	if m.Action == ActionDownAndUp {
		ev.Action = keyActionUp
		return c.input.InjectInputEvent(ev, accessor.SyncNone)
	}
	return nil
}

// processTextInput types a string unit by unit: each UTF-16 code unit is
// mapped through the platform's key character map
// to a down/up event pair; a code unit with no mapping is logged and
// skipped rather than failing the whole batch.
func (c *Controller) processTextInput(m *TextInputMessage) error {
	for _, unit := range m.Text {
		events, err := c.input.KeyEventsForRune(unit)
		if err != nil {
			if errors.Is(err, accessor.ErrUnsupported) {
				logging.Warnf("control: no key mapping for code unit %#04x", unit)
				continue
			}
			return err
		}
		for _, ev := range events {
			if c.vinput != nil {
				if err := c.vinput.WriteKeyEvent(ev.KeyCode, ev.Action, ev.EventTime); err != nil {
					return err
				}
				continue
			}
			if err := c.input.InjectInputEvent(ev, accessor.SyncNone); err != nil {
				return err
			}
		}
	}
	return nil
}

// processSetDeviceOrientation applies a peer-requested orientation. The
// message carries no display id; it always fans out from the primary.
func (c *Controller) processSetDeviceOrientation(m *SetDeviceOrientationMessage) error {
	if m.Orientation < 0 || m.Orientation > 3 {
		logging.Errorf("control: invalid device orientation %d", m.Orientation)
		return nil
	}
	return c.streamers.SetDeviceOrientation(m.Orientation)
}

func (c *Controller) processSetMaxVideoResolution(m *SetMaxVideoResolutionMessage) error {
	if m.Width <= 0 || m.Height <= 0 {
		logging.Errorf("control: invalid max video resolution %dx%d", m.Width, m.Height)
		return nil
	}
	return c.streamers.SetMaxVideoResolution(m.DisplayID, config.Size{W: m.Width, H: m.Height})
}
