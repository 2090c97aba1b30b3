// Package control implements the control channel: it
// deserializes one ControlMessage at a time off the control socket,
// dispatches each to the accessor facade or the streamer registry, and
// emits upstream notifications (clipboard, device state, display
// lifecycle) on its own 250ms tick between reads.
package control

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/fatal"
	"github.com/screenshare/agent/internal/logging"
	"github.com/screenshare/agent/internal/wire"
)

// tickInterval is the soft read timeout the controller rearms every
// iteration so pending clipboard/device-state/display work gets a chance
// to drain even with no inbound message.
const tickInterval = 250 * time.Millisecond

// utf8MaxBytesPerCharacter bounds the clipboard length gate: a code
// point is at most 4 UTF-8 bytes.
const utf8MaxBytesPerCharacter = 4

// StreamerRegistry is the subset of internal/agent's streamer lifecycle
// the controller drives.
type StreamerRegistry interface {
	SetDeviceOrientation(orientation int32) error
	SetMaxVideoResolution(displayID int32, size config.Size) error
	StartVideoStream(requestID, displayID int32, size config.Size) error
	StopVideoStream(displayID int32) error
	StartAudioStream() error
	StopAudioStream() error

	// RefreshVideoOrientation re-evaluates a single display's emitted
	// orientation without changing the stored video-orientation setting
	//.
	RefreshVideoOrientation(displayID int32, useDisplayRotation bool) error
}

// VirtualInputDevices is the optional uinput/Wayland fast path for
// pointer and key injection. A nil
// VirtualInputDevices means every event goes through accessor.InputManager.
type VirtualInputDevices interface {
	// WriteTouchEvent injects one pointer contact directly, bypassing the
	// platform input-event pipeline. Returns false if this display has no
	// virtual touchscreen registered, in which case the caller falls back
	// to accessor.InputManager.
	WriteTouchEvent(displayID int32, pointerID int32, x, y int32, down bool) (bool, error)
	// WriteMouseEvent moves the virtual mouse pointer and applies the
	// given button mask. Returns false when no virtual mouse serves the
	// display.
	WriteMouseEvent(displayID int32, x, y int32, buttonState int32) (bool, error)
	WriteKeyEvent(keyCode int32, action int32, eventTimeNanos int64) error
}

// Deps bundles the accessor facade and peripheral dependencies a
// Controller needs.
type Deps struct {
	Displays    accessor.DisplayManager
	Window      accessor.WindowManager
	Clipboard   accessor.ClipboardManager
	DeviceState accessor.DeviceStateManager
	Input       accessor.InputManager
	Streamers   StreamerRegistry
	VInput      VirtualInputDevices // nilable
}

type displayEvent struct {
	added     bool
	displayID int32
}

// Controller is the control-message loop, one per session.
type Controller struct {
	reader *wire.Reader
	writer *wire.Writer

	displays    accessor.DisplayManager
	window      accessor.WindowManager
	clipboard   accessor.ClipboardManager
	deviceState accessor.DeviceStateManager
	input       accessor.InputManager
	streamers   StreamerRegistry
	vinput      VirtualInputDevices

	motionStartMillis int64 // 0 means "no gesture in progress"

	clipboardChanged         atomic.Bool
	lastClipboardText        string
	maxSyncedClipboardLength int32

	deviceStateSupported bool
	previousDeviceState  int32 // controller-goroutine-owned, last notification sent
	deviceStateID        atomic.Int32

	displayMu            sync.Mutex
	pendingDisplayEvents []displayEvent

	stopped atomic.Bool
}

// New creates a Controller over one control-channel connection.
func New(r *wire.Reader, w *wire.Writer, deps Deps) *Controller {
	return &Controller{
		reader:      r,
		writer:      w,
		displays:    deps.Displays,
		window:      deps.Window,
		clipboard:   deps.Clipboard,
		deviceState: deps.DeviceState,
		input:       deps.Input,
		streamers:   deps.Streamers,
		vinput:      deps.VInput,
	}
}

// Initialize registers the controller as a display listener and, if the
// platform supports multiple device states, as a device-state listener,
// sending the initial SupportedDeviceStatesNotification.
func (c *Controller) Initialize() error {
	c.displays.AddListener(c)

	states, err := c.deviceState.GetSupportedStates()
	if err != nil {
		if errors.Is(err, accessor.ErrUnsupported) {
			c.deviceStateSupported = false
			return nil
		}
		return err
	}
	if len(states) <= 1 {
		c.deviceStateSupported = false
		return nil
	}
	c.deviceStateSupported = true
	c.deviceState.AddListener(c)

	current, err := c.deviceState.GetStateIdentifier()
	if err != nil {
		return err
	}
	c.previousDeviceState = current
	c.deviceStateID.Store(current)

	if err := writeSupportedDeviceStatesNotification(c.writer, states, current); err != nil {
		return err
	}
	return c.writer.Flush(0)
}

// Run is the main loop: drain pending upstream work, rearm the
// soft read timeout, read one message type, and dispatch it. Returns nil
// on a clean peer-initiated close (io.EOF), or a *fatal.Error on anything
// unrecoverable.
func (c *Controller) Run() error {
	for {
		if c.stopped.Load() {
			return nil
		}

		c.sendClipboardChangedNotification()
		c.sendDeviceStateNotification()
		c.sendPendingDisplayEvents()

		if err := c.reader.SetReadTimeout(tickInterval); err != nil {
			return fatal.Wrap(fatal.SocketIO, err)
		}
		msgType, err := c.reader.ReadMessageType()
		if err != nil {
			if errors.Is(err, wire.ErrTimeout) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fatal.Wrap(fatal.SocketIO, err)
		}
		if err := c.reader.SetReadTimeout(0); err != nil {
			return fatal.Wrap(fatal.SocketIO, err)
		}

		msg, err := Deserialize(msgType, c.reader)
		if err != nil {
			if errors.Is(err, wire.ErrMalformed) {
				return fatal.New(fatal.InvalidControlMessage, "unexpected message type %d", msgType)
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fatal.Wrap(fatal.SocketIO, err)
		}

		if c.stopped.Load() {
			return nil
		}
		if err := c.dispatch(msg); err != nil {
			return err
		}
	}
}

// Stop requests the loop exit at its next iteration boundary.
func (c *Controller) Stop() { c.stopped.Store(true) }

// dispatch routes one parsed message. Handler errors are logged and
// dropped — a failed platform call must not end the session — except
// control-socket write failures, which the handlers themselves wrap as
// *fatal.Error and which propagate.
func (c *Controller) dispatch(msg Message) error {
	var err error
	switch m := msg.(type) {
	case *MotionEventMessage:
		err = c.processMotionEvent(m)
	case *KeyEventMessage:
		err = c.processKeyEvent(m)
	case *TextInputMessage:
		err = c.processTextInput(m)
	case *SetDeviceOrientationMessage:
		err = c.processSetDeviceOrientation(m)
	case *SetMaxVideoResolutionMessage:
		err = c.processSetMaxVideoResolution(m)
	case *StartClipboardSyncMessage:
		err = c.processStartClipboardSync(m)
	case *StopClipboardSyncMessage:
		c.processStopClipboardSync()
	case *StartVideoStreamMessage:
		err = c.streamers.StartVideoStream(m.RequestID, m.DisplayID, config.Size{W: m.Width, H: m.Height})
	case *StopVideoStreamMessage:
		err = c.streamers.StopVideoStream(m.DisplayID)
	case *StartAudioStreamMessage:
		err = c.streamers.StartAudioStream()
	case *StopAudioStreamMessage:
		err = c.streamers.StopAudioStream()
	case *RequestDeviceStateMessage:
		err = c.processRequestDeviceState(m)
	case *DisplayConfigurationRequestMessage:
		err = c.sendDisplayConfigurations(m.RequestID)
	default:
		logging.Errorf("control: unhandled message %T", msg)
	}
	if err == nil {
		return nil
	}
	if fe, ok := fatal.As(err); ok {
		return fe
	}
	logging.Warnf("control: %T failed: %v", msg, err)
	return nil
}
