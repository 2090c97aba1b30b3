package control

import (
	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/wire"
)

// Control-channel message type ids. The first eight predate the
// stream-lifecycle and device-state messages, which take 9-19.
const (
	TypeMotionEvent                      = 1
	TypeKeyEvent                         = 2
	TypeTextInput                        = 3
	TypeSetDeviceOrientation             = 4
	TypeSetMaxVideoResolution            = 5
	TypeStartClipboardSync               = 6
	TypeStopClipboardSync                = 7
	TypeClipboardChangedNotification     = 8
	TypeStartVideoStream                 = 9
	TypeStopVideoStream                  = 10
	TypeStartAudioStream                 = 11
	TypeStopAudioStream                  = 12
	TypeRequestDeviceState                = 13
	TypeDeviceStateNotification          = 14
	TypeSupportedDeviceStatesNotification = 15
	TypeDisplayConfigurationRequest      = 16
	TypeDisplayConfigurationResponse     = 17
	TypeDisplayAddedNotification         = 18
	TypeDisplayRemovedNotification       = 19
)

// ActionDownAndUp is KeyEventMessage's synthetic action value meaning
// "inject ACTION_DOWN immediately followed by ACTION_UP";
// it is never a real platform key action.
const ActionDownAndUp int32 = 8

// Message is any parsed control-channel message.
type Message interface{ messageType() int32 }

// --- downstream (peer -> agent) ---

type MotionEventMessage struct {
	Pointers    []MotionPointer
	Action      int32
	ButtonState int32
	ActionButton int32
	DisplayID   int32
}

func (*MotionEventMessage) messageType() int32 { return TypeMotionEvent }

type MotionPointer struct {
	X, Y      int32
	PointerID int32
	Axes      map[int32]float32
}

type KeyEventMessage struct {
	Action    int32
	KeyCode   int32
	MetaState uint32
}

func (*KeyEventMessage) messageType() int32 { return TypeKeyEvent }

type TextInputMessage struct {
	Text []uint16 // raw UTF-16 code units, one KeyEventsForRune call per unit
}

func (*TextInputMessage) messageType() int32 { return TypeTextInput }

type SetDeviceOrientationMessage struct {
	Orientation int32
}

func (*SetDeviceOrientationMessage) messageType() int32 { return TypeSetDeviceOrientation }

type SetMaxVideoResolutionMessage struct {
	DisplayID int32
	Width     int32
	Height    int32
}

func (*SetMaxVideoResolutionMessage) messageType() int32 { return TypeSetMaxVideoResolution }

type StartClipboardSyncMessage struct {
	MaxSyncedLength int32
	Text            []byte
}

func (*StartClipboardSyncMessage) messageType() int32 { return TypeStartClipboardSync }

type StopClipboardSyncMessage struct{}

func (*StopClipboardSyncMessage) messageType() int32 { return TypeStopClipboardSync }

type StartVideoStreamMessage struct {
	RequestID int32
	DisplayID int32
	Width     int32
	Height    int32
}

func (*StartVideoStreamMessage) messageType() int32 { return TypeStartVideoStream }

type StopVideoStreamMessage struct{ DisplayID int32 }

func (*StopVideoStreamMessage) messageType() int32 { return TypeStopVideoStream }

type StartAudioStreamMessage struct{}

func (*StartAudioStreamMessage) messageType() int32 { return TypeStartAudioStream }

type StopAudioStreamMessage struct{}

func (*StopAudioStreamMessage) messageType() int32 { return TypeStopAudioStream }

type RequestDeviceStateMessage struct{ StateID int32 }

func (*RequestDeviceStateMessage) messageType() int32 { return TypeRequestDeviceState }

type DisplayConfigurationRequestMessage struct{ RequestID int32 }

func (*DisplayConfigurationRequestMessage) messageType() int32 {
	return TypeDisplayConfigurationRequest
}

// Deserialize reads the body of the message whose type varint has already
// been consumed, and returns the typed Message.
func Deserialize(msgType uint32, r *wire.Reader) (Message, error) {
	switch int32(msgType) {
	case TypeMotionEvent:
		return deserializeMotionEvent(r)
	case TypeKeyEvent:
		action, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		keycode, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		meta, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return &KeyEventMessage{Action: action, KeyCode: keycode, MetaState: meta}, nil
	case TypeTextInput:
		s, ok, err := r.ReadUTF16String()
		if err != nil {
			return nil, err
		}
		if !ok || s == "" {
			return nil, wire.ErrMalformed
		}
		return &TextInputMessage{Text: stringToUTF16(s)}, nil
	case TypeSetDeviceOrientation:
		o, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		return &SetDeviceOrientationMessage{Orientation: o}, nil
	case TypeSetMaxVideoResolution:
		displayID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		w, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		h, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		return &SetMaxVideoResolutionMessage{DisplayID: displayID, Width: w, Height: h}, nil
	case TypeStartClipboardSync:
		maxLen, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		text, err := r.ReadBytes()
		if err != nil {
			return nil, err
		}
		return &StartClipboardSyncMessage{MaxSyncedLength: maxLen, Text: text}, nil
	case TypeStopClipboardSync:
		return &StopClipboardSyncMessage{}, nil
	case TypeStartVideoStream:
		requestID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		displayID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		w, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		h, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		return &StartVideoStreamMessage{RequestID: requestID, DisplayID: displayID, Width: w, Height: h}, nil
	case TypeStopVideoStream:
		displayID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		return &StopVideoStreamMessage{DisplayID: displayID}, nil
	case TypeStartAudioStream:
		return &StartAudioStreamMessage{}, nil
	case TypeStopAudioStream:
		return &StopAudioStreamMessage{}, nil
	case TypeRequestDeviceState:
		id, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		return &RequestDeviceStateMessage{StateID: id}, nil
	case TypeDisplayConfigurationRequest:
		requestID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		return &DisplayConfigurationRequestMessage{RequestID: requestID}, nil
	default:
		return nil, wire.ErrMalformed
	}
}

func deserializeMotionEvent(r *wire.Reader) (*MotionEventMessage, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	pointers := make([]MotionPointer, count)
	for i := range pointers {
		x, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		y, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		pointerID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		axisCount, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		var axes map[int32]float32
		if axisCount > 0 {
			axes = make(map[int32]float32, axisCount)
		}
		for j := uint32(0); j < axisCount; j++ {
			axis, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			value, err := r.ReadF32()
			if err != nil {
				return nil, err
			}
			axes[axis] = value
		}
		pointers[i] = MotionPointer{X: x, Y: y, PointerID: pointerID, Axes: axes}
	}
	action, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	buttonState, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	actionButton, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	displayID, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	return &MotionEventMessage{
		Pointers:     pointers,
		Action:       action,
		ButtonState:  buttonState,
		ActionButton: actionButton,
		DisplayID:    displayID,
	}, nil
}

// --- upstream (agent -> peer) notifications ---

func writeClipboardChangedNotification(w *wire.Writer, text []byte) error {
	if err := w.WriteU32(TypeClipboardChangedNotification); err != nil {
		return err
	}
	return w.WriteBytes(text)
}

func writeDeviceStateNotification(w *wire.Writer, stateID int32) error {
	if err := w.WriteU32(TypeDeviceStateNotification); err != nil {
		return err
	}
	return w.WriteI32(stateID)
}

func writeSupportedDeviceStatesNotification(w *wire.Writer, states []accessor.DeviceState, current int32) error {
	if err := w.WriteU32(TypeSupportedDeviceStatesNotification); err != nil {
		return err
	}
	if err := w.WriteI32(int32(len(states))); err != nil {
		return err
	}
	for _, s := range states {
		if err := w.WriteI32(s.Identifier); err != nil {
			return err
		}
		if err := w.WriteUTF16String(s.Name, true); err != nil {
			return err
		}
		if err := w.WriteU32(s.SystemProperties); err != nil {
			return err
		}
		if err := w.WriteU32(s.PhysicalProperties); err != nil {
			return err
		}
	}
	return w.WriteI32(current)
}

func writeDisplayConfigurationResponse(w *wire.Writer, requestID int32, displays []displayConfig) error {
	if err := w.WriteU32(TypeDisplayConfigurationResponse); err != nil {
		return err
	}
	if err := w.WriteI32(requestID); err != nil {
		return err
	}
	if err := w.WriteI32(int32(len(displays))); err != nil {
		return err
	}
	for _, d := range displays {
		if err := w.WriteI32(d.ID); err != nil {
			return err
		}
		if err := w.WriteI32(d.Width); err != nil {
			return err
		}
		if err := w.WriteI32(d.Height); err != nil {
			return err
		}
		if err := w.WriteI32(d.Rotation); err != nil {
			return err
		}
		if err := w.WriteI32(d.Type); err != nil {
			return err
		}
	}
	return nil
}

func writeDisplayAddedNotification(w *wire.Writer, displayID int32) error {
	if err := w.WriteU32(TypeDisplayAddedNotification); err != nil {
		return err
	}
	return w.WriteI32(displayID)
}

func writeDisplayRemovedNotification(w *wire.Writer, displayID int32) error {
	if err := w.WriteU32(TypeDisplayRemovedNotification); err != nil {
		return err
	}
	return w.WriteI32(displayID)
}

type displayConfig struct {
	ID       int32
	Width    int32
	Height   int32
	Rotation int32
	Type     int32
}
