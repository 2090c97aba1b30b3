package control

import (
	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/fatal"
	"github.com/screenshare/agent/internal/logging"
)

// OnDisplayAdded/OnDisplayRemoved/OnDisplayChanged are the
// accessor.DisplayListener hooks. Added/removed events queue for the
// controller's own tick; changed is intentionally a no-op here — a
// display reconfiguration restarts the affected streamer directly
// (internal/streamer's own DisplayListener registration) and does not by
// itself produce a controller-channel notification.
func (c *Controller) OnDisplayAdded(id int32) {
	c.displayMu.Lock()
	c.pendingDisplayEvents = append(c.pendingDisplayEvents, displayEvent{added: true, displayID: id})
	c.displayMu.Unlock()
}

func (c *Controller) OnDisplayRemoved(id int32) {
	c.displayMu.Lock()
	c.pendingDisplayEvents = append(c.pendingDisplayEvents, displayEvent{added: false, displayID: id})
	c.displayMu.Unlock()
}

func (c *Controller) OnDisplayChanged(id int32) {}

// sendPendingDisplayEvents drains the queue:
// swap the pending slice out under the lock, then serialize one
// notification per event outside the lock.
func (c *Controller) sendPendingDisplayEvents() {
	c.displayMu.Lock()
	events := c.pendingDisplayEvents
	c.pendingDisplayEvents = nil
	c.displayMu.Unlock()

	for _, ev := range events {
		var err error
		if ev.added {
			err = writeDisplayAddedNotification(c.writer, ev.displayID)
		} else {
			err = writeDisplayRemovedNotification(c.writer, ev.displayID)
		}
		if err != nil {
			return
		}
		if err := c.writer.Flush(0); err != nil {
			return
		}
	}
}

// sendDisplayConfigurations answers a DisplayConfigurationRequest with
// every display that is on and not private.
func (c *Controller) sendDisplayConfigurations(requestID int32) error {
	ids, err := c.displays.GetDisplayIDs()
	if err != nil {
		logging.Warnf("control: display enumeration failed: %v", err)
		ids = nil
	}
	configs := make([]displayConfig, 0, len(ids))
	for _, id := range ids {
		info, err := c.displays.GetDisplayInfo(id)
		if err != nil || !info.IsValid() {
			continue
		}
		if !info.IsOn() || info.Flags&accessor.DisplayFlagPrivate != 0 {
			continue
		}
		configs = append(configs, displayConfig{
			ID:       id,
			Width:    info.LogicalWidth,
			Height:   info.LogicalHeight,
			Rotation: info.Rotation,
			Type:     info.Type,
		})
	}
	if err := writeDisplayConfigurationResponse(c.writer, requestID, configs); err != nil {
		return fatal.Wrap(fatal.SocketIO, err)
	}
	if err := c.writer.Flush(0); err != nil {
		return fatal.Wrap(fatal.SocketIO, err)
	}
	return nil
}

var _ accessor.DisplayListener = (*Controller)(nil)
