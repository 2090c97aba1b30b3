package control

import (
	"errors"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/logging"
)

const primaryDisplayID int32 = 0

// cancelDeviceStateOverride is the request-device-state payload meaning
// "clear the active override" rather than naming a state.
const cancelDeviceStateOverride int32 = -1

// processRequestDeviceState forwards the requested state id to the
// platform, flags always 0. A cancel request on a platform without the
// cancel API is logged and dropped, never fatal.
func (c *Controller) processRequestDeviceState(m *RequestDeviceStateMessage) error {
	if !c.deviceStateSupported {
		return nil
	}
	if m.StateID == cancelDeviceStateOverride {
		if err := c.deviceState.CancelStateRequest(); err != nil {
			if errors.Is(err, accessor.ErrUnsupported) {
				logging.Warnf("control: device state override cancel not available")
				return nil
			}
			return err
		}
		return nil
	}
	return c.deviceState.RequestState(m.StateID, 0)
}

// OnDeviceStateChanged is the accessor.DeviceStateListener hook: it
// remembers the new identifier for the next tick's notification and, if
// it actually changed, asks the primary streamer to re-evaluate
// orientation using the display's own current rotation: a device-state
// flip, unlike a pointer gesture, is not "an app may have started".
func (c *Controller) OnDeviceStateChanged(identifier int32) {
	old := c.deviceStateID.Swap(identifier)
	if old == identifier {
		return
	}
	_ = c.streamers.RefreshVideoOrientation(primaryDisplayID, true)
}

// sendDeviceStateNotification emits a notification whenever the observed
// state identifier differs from the previously sent one.
func (c *Controller) sendDeviceStateNotification() {
	if !c.deviceStateSupported {
		return
	}
	current := c.deviceStateID.Load()
	if current == c.previousDeviceState {
		return
	}
	c.previousDeviceState = current
	if err := writeDeviceStateNotification(c.writer, current); err != nil {
		return
	}
	_ = c.writer.Flush(0)
}

var _ accessor.DeviceStateListener = (*Controller)(nil)
