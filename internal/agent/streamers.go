package agent

import (
	"github.com/pkg/errors"

	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/streamer"
)

// SetDeviceOrientation applies a video-orientation mode to every active
// streamer: the peer has no
// per-display addressing for this message, so it fans out.
func (a *Agent) SetDeviceOrientation(orientation int32) error {
	a.mu.Lock()
	streamers := make([]*streamer.Streamer, 0, len(a.streamers))
	for _, s := range a.streamers {
		streamers = append(streamers, s)
	}
	a.mu.Unlock()
	for _, s := range streamers {
		s.SetVideoOrientation(streamer.Orientation(orientation))
	}
	return nil
}

// SetMaxVideoResolution forwards to the named display's streamer, which
// restarts its codec session only if the resolution actually changed.
func (a *Agent) SetMaxVideoResolution(displayID int32, size config.Size) error {
	s, ok := a.getStreamer(displayID)
	if !ok {
		return errors.Errorf("agent: no streamer for display %d", displayID)
	}
	s.SetMaxVideoResolution(size)
	return nil
}

// StartVideoStream creates (if needed) and starts the streamer for
// displayID. requestID is accepted for symmetry with the wire protocol's
// request/response correlation but this operation has no response to
// correlate.
func (a *Agent) StartVideoStream(requestID, displayID int32, size config.Size) error {
	return a.startStreamer(displayID, displayID == primaryDisplayID, size)
}

// StopVideoStream tears down a non-primary display's streamer. The
// primary display's streamer lives for the process, so a
// StopVideoStreamMessage naming it is a no-op.
func (a *Agent) StopVideoStream(displayID int32) error {
	if displayID == primaryDisplayID {
		return nil
	}
	a.mu.Lock()
	s, ok := a.streamers[displayID]
	if ok {
		delete(a.streamers, displayID)
	}
	a.mu.Unlock()
	if !ok {
		return nil
	}
	s.Stop()
	return nil
}

// StartAudioStream and StopAudioStream are accepted for protocol
// completeness; audio capture itself is out of scope, so these only
// acknowledge the request.
func (a *Agent) StartAudioStream() error { return nil }
func (a *Agent) StopAudioStream() error  { return nil }

// RefreshVideoOrientation re-evaluates displayID's emitted orientation.
// useDisplayRotation=true re-checks against the display's own current
// rotation (device-state change path); false forces an unconditional
// restart so the existing video-orientation setting is re-applied against
// fresh display info (pointer-up path).
func (a *Agent) RefreshVideoOrientation(displayID int32, useDisplayRotation bool) error {
	s, ok := a.getStreamer(displayID)
	if !ok {
		return nil
	}
	if !useDisplayRotation {
		s.Refresh()
		return nil
	}
	info, err := a.deps.Displays.GetDisplayInfo(displayID)
	if err != nil {
		return errors.Wrapf(err, "agent: display %d", displayID)
	}
	s.OnRotationChanged(info.Rotation)
	return nil
}
