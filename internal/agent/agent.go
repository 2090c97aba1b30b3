// Package agent wires internal/session, internal/streamer, internal/control
// and internal/accessor together into one running process: it boots the
// three channel sockets, starts the primary display's streamer, runs the
// control-message loop, and owns every exit path's cleanup, restoring any
// platform setting it overrode along the way.
package agent

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/concurrent"
	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/control"
	"github.com/screenshare/agent/internal/logging"
	"github.com/screenshare/agent/internal/session"
	"github.com/screenshare/agent/internal/streamer"
	"github.com/screenshare/agent/internal/vinput"
)

// primaryDisplayID matches internal/control's own constant: display 0 is
// always present and is never torn down by StopVideoStream.
const primaryDisplayID int32 = 0

// restorer is the subset of *concurrent.ScopedSetting[T] Agent needs;
// generic instantiations differ in T so Shutdown holds them behind this
// non-generic interface.
type restorer interface{ Restore() }

// Deps bundles the accessor facades and video-wire mime type the agent
// assembles a session around.
type Deps struct {
	Displays    accessor.DisplayManager
	Window      accessor.WindowManager
	Clipboard   accessor.ClipboardManager
	DeviceState accessor.DeviceStateManager
	Input       accessor.InputManager
	Surfaces    accessor.SurfaceControl
	Codecs      accessor.CodecProvider
}

// Agent is one running session: the bootstrapped channels, the per-display
// streamers, and the control loop driving them.
type Agent struct {
	cfg  config.Config
	deps Deps
	sess *session.Session
	ctrl *control.Controller
	vdev vinput.Device // nil if FlagUseUinput is unset or the backend failed to start

	mu        sync.Mutex
	streamers map[int32]*streamer.Streamer

	fatalMu  sync.Mutex
	fatalErr error

	restorers []restorer
}

// New bootstraps the three channel sockets and — when the start-video
// flag is set — the primary display's streamer, then constructs (but
// does not yet run) the control loop. Without the flag the primary
// streamer is created on the peer's first start-video-stream message.
func New(cfg config.Config, deps Deps) (*Agent, error) {
	sess, err := session.Bootstrap(cfg, deps.Codecs)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		cfg:       cfg,
		deps:      deps,
		sess:      sess,
		streamers: map[int32]*streamer.Streamer{},
	}

	if cfg.HasFlag(config.FlagUseUinput) {
		if info, err := deps.Displays.GetDisplayInfo(primaryDisplayID); err == nil {
			if dev, err := vinput.New(primaryDisplayID, info.LogicalWidth, info.LogicalHeight); err != nil {
				logging.Warnf("agent: virtual input device unavailable: %v", err)
			} else {
				a.vdev = dev
			}
		}
	}

	if cfg.Orientation != 0 {
		a.freezeRotation(primaryDisplayID, cfg.Orientation)
	}
	if cfg.HasFlag(config.FlagTurnOffDisplay) {
		a.turnOffDisplay()
	}

	if cfg.HasFlag(config.FlagStartVideoStream) {
		if err := a.startStreamer(primaryDisplayID, true, cfg.MaxSize); err != nil {
			sess.Close()
			return nil, err
		}
	}

	ctrl := control.New(sess.ControlReader, sess.ControlWriter, control.Deps{
		Displays:    deps.Displays,
		Window:      deps.Window,
		Clipboard:   deps.Clipboard,
		DeviceState: deps.DeviceState,
		Input:       deps.Input,
		Streamers:   a,
		VInput:      a.vinputOrNil(),
	})
	a.fatalMu.Lock()
	a.ctrl = ctrl
	a.fatalMu.Unlock()
	if err := a.ctrl.Initialize(); err != nil {
		a.Shutdown()
		return nil, err
	}

	return a, nil
}

// vinputOrNil adapts a.vdev (vinput.Device, nil-able) to
// control.VirtualInputDevices: a nil *typed* pointer boxed into a non-nil
// interface would break the controller's "nil means no fast path" check,
// so this returns a literal untyped nil when unset.
func (a *Agent) vinputOrNil() control.VirtualInputDevices {
	if a.vdev == nil {
		return nil
	}
	return a.vdev
}

// Run drives the control loop until the peer disconnects or a fatal
// condition occurs — on the control channel or reported by a streamer
// goroutine. Callers must call Shutdown exactly once afterward,
// regardless of the returned error.
func (a *Agent) Run() error {
	err := a.ctrl.Run()
	a.fatalMu.Lock()
	streamerErr := a.fatalErr
	a.fatalMu.Unlock()
	if err == nil {
		return streamerErr
	}
	return err
}

// onStreamerFatal records the first unrecoverable streamer error and
// stops the control loop so Run returns; streamer goroutines never exit
// the process themselves. The control loop may not exist yet when a
// streamer fails during New, hence the guarded load.
func (a *Agent) onStreamerFatal(err error) {
	a.fatalMu.Lock()
	if a.fatalErr == nil {
		a.fatalErr = err
	}
	ctrl := a.ctrl
	a.fatalMu.Unlock()
	if ctrl != nil {
		ctrl.Stop()
	}
}

// Shutdown stops the control loop, every streamer, restores every scoped
// platform setting, closes the virtual input device, and tears down the
// session sockets — in that order, and unconditionally on every field
// that was actually initialized.
func (a *Agent) Shutdown() {
	a.ctrl.Stop()

	a.mu.Lock()
	streamers := make([]*streamer.Streamer, 0, len(a.streamers))
	for _, s := range a.streamers {
		streamers = append(streamers, s)
	}
	a.mu.Unlock()
	for _, s := range streamers {
		s.Stop()
	}

	for _, r := range a.restorers {
		r.Restore()
	}

	if a.vdev != nil {
		if err := a.vdev.Close(); err != nil {
			logging.Warnf("agent: virtual input device close: %v", err)
		}
	}

	if a.sess != nil {
		a.sess.Close()
	}
}

// freezeRotation overrides the user rotation setting for displayID to the
// requested value, remembering whatever was in effect so Shutdown can put
// it back.
func (a *Agent) freezeRotation(displayID, orientation int32) {
	access := concurrent.SettingAccess[rotationState]{
		Get: func() rotationState {
			frozen, _ := a.deps.Window.IsRotationFrozen(displayID)
			return rotationState{frozen: frozen}
		},
		Set: func(s rotationState) {
			// accessor.WindowManager exposes no getter for the frozen
			// rotation value itself, only whether one is in effect, so a
			// pre-existing freeze is restored as "still frozen" rather
			// than to its original angle — the best this facade allows.
			var err error
			if s.frozen {
				err = a.deps.Window.FreezeRotation(displayID, orientation)
			} else {
				err = a.deps.Window.ThawRotation(displayID)
			}
			if err != nil {
				logging.Warnf("agent: restoring rotation freeze for display %d: %v", displayID, err)
			}
		},
	}
	setting := concurrent.NewScopedSetting(access)
	if err := a.deps.Window.FreezeRotation(displayID, orientation); err != nil {
		logging.Warnf("agent: freezing rotation for display %d: %v", displayID, err)
	}
	a.restorers = append(a.restorers, setting)
}

type rotationState struct{ frozen bool }

// turnOffDisplay blanks the mirrored physical display for the session,
// remembering its power state so Shutdown turns it back on. Requires the
// built-in display's token; platforms that expose none keep their display
// lit, with a warning.
func (a *Agent) turnOffDisplay() {
	token, err := a.deps.Surfaces.GetInternalDisplayToken()
	if err != nil {
		logging.Warnf("agent: cannot turn off display: %v", err)
		return
	}
	access := concurrent.SettingAccess[accessor.PowerState]{
		Get: func() accessor.PowerState {
			info, err := a.deps.Displays.GetDisplayInfo(primaryDisplayID)
			if err != nil {
				return accessor.PowerOn
			}
			return info.PowerState
		},
		Set: func(v accessor.PowerState) {
			if err := a.deps.Surfaces.SetPowerMode(token, v); err != nil {
				logging.Warnf("agent: setting display power mode: %v", err)
			}
		},
	}
	setting := concurrent.NewScopedSetting(access)
	setting.Set(accessor.PowerOff)
	a.restorers = append(a.restorers, setting)
}

func (a *Agent) getStreamer(displayID int32) (*streamer.Streamer, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.streamers[displayID]
	return s, ok
}

// startStreamer creates, registers and starts a streamer for displayID if
// one does not already exist.
func (a *Agent) startStreamer(displayID int32, primary bool, requested config.Size) error {
	a.mu.Lock()
	if _, exists := a.streamers[displayID]; exists {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	info, err := a.deps.Displays.GetDisplayInfo(displayID)
	if err != nil {
		return errors.Wrapf(err, "agent: display %d", displayID)
	}
	isWatch := info.Type == displayTypeWatch

	s := streamer.New(displayID, primary, isWatch, int32(a.cfg.MaxBitRate), streamer.Deps{
		Displays: a.deps.Displays,
		Window:   a.deps.Window,
		Surfaces: a.deps.Surfaces,
		Codecs:   a.deps.Codecs,
		Writer:   a.sess.Video,
		MimeType: mimeTypeForCodec(a.cfg.Codec),
		Fatal:    a.onStreamerFatal,
	})
	if requested.W > 0 && requested.H > 0 {
		s.SetMaxVideoResolution(requested)
	}

	a.mu.Lock()
	a.streamers[displayID] = s
	a.mu.Unlock()

	s.Start()
	return nil
}

// displayTypeWatch is the one display-type discriminant the agent
// interprets: watch-category displays get the lower frame rate cap. The
// platform enumerates many more types, none of which change behavior
// here.
const displayTypeWatch int32 = 1

func mimeTypeForCodec(codec string) string {
	switch codec {
	case "vp8":
		return "video/x-vnd.on2.vp8"
	case "vp9":
		return "video/x-vnd.on2.vp9"
	case "av1", "av01":
		return "video/av01"
	case "hevc", "h265":
		return "video/hevc"
	default:
		return "video/avc"
	}
}
