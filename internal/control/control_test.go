package control

import (
	"bytes"
	"strings"
	"testing"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/accessor/fake"
	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/wire"
)

// fakeStreamers records every call a test needs to assert on.
type fakeStreamers struct {
	orientation        int32
	maxSize            map[int32]config.Size
	startedVideo       []int32
	stoppedVideo       []int32
	audioStarted       bool
	audioStopped       bool
	refreshed          []int32
	refreshedByDisplay bool
}

func newFakeStreamers() *fakeStreamers {
	return &fakeStreamers{maxSize: map[int32]config.Size{}}
}

func (f *fakeStreamers) SetDeviceOrientation(o int32) error { f.orientation = o; return nil }
func (f *fakeStreamers) SetMaxVideoResolution(displayID int32, size config.Size) error {
	f.maxSize[displayID] = size
	return nil
}
func (f *fakeStreamers) StartVideoStream(requestID, displayID int32, size config.Size) error {
	f.startedVideo = append(f.startedVideo, displayID)
	return nil
}
func (f *fakeStreamers) StopVideoStream(displayID int32) error {
	f.stoppedVideo = append(f.stoppedVideo, displayID)
	return nil
}
func (f *fakeStreamers) StartAudioStream() error { f.audioStarted = true; return nil }
func (f *fakeStreamers) StopAudioStream() error  { f.audioStopped = true; return nil }
func (f *fakeStreamers) RefreshVideoOrientation(displayID int32, useDisplayRotation bool) error {
	f.refreshed = append(f.refreshed, displayID)
	f.refreshedByDisplay = useDisplayRotation
	return nil
}

func newTestController(t *testing.T) (*Controller, *fakeStreamers, *fake.DisplayManager, *fake.InputManager, *bytes.Buffer) {
	t.Helper()
	displays := fake.NewDisplayManager()
	input := fake.NewInputManager()
	streamers := newFakeStreamers()
	var out bytes.Buffer
	w := wire.NewWriter(&out)
	c := New(nil, w, Deps{
		Displays:    displays,
		Window:      fake.NewWindowManager(),
		Clipboard:   &fake.ClipboardManager{},
		DeviceState: fake.NewDeviceStateManager(nil, 0),
		Input:       input,
		Streamers:   streamers,
	})
	return c, streamers, displays, input, &out
}

func TestExpandMotionEventsSinglePointer(t *testing.T) {
	pointers := []accessor.Pointer{{ID: 0, X: 10, Y: 20}}
	events := expandMotionEvents(pointers, actionDown, 0, 0, accessor.SourceStylusTouchscreen, 100)
	if len(events) != 1 || events[0].Action != actionDown {
		t.Fatalf("single-pointer DOWN should pass through unchanged, got %+v", events)
	}

	events = expandMotionEvents(pointers, actionUp, 0, 0, accessor.SourceStylusTouchscreen, 100)
	if len(events) != 1 || events[0].Action != actionUp {
		t.Fatalf("single-pointer UP should pass through unchanged, got %+v", events)
	}
}

func TestExpandMotionEventsMultiPointerDown(t *testing.T) {
	pointers := []accessor.Pointer{{ID: 0}, {ID: 1}, {ID: 2}}
	events := expandMotionEvents(pointers, actionDown, 0, 0, accessor.SourceStylusTouchscreen, 100)
	if len(events) != 3 {
		t.Fatalf("expected 3 events (DOWN + 2 POINTER_DOWN), got %d: %+v", len(events), events)
	}
	if events[0].Action != actionDown || len(events[0].Pointers) != 1 {
		t.Fatalf("first event should be plain DOWN with 1 pointer, got %+v", events[0])
	}
	wantSecond := actionPointerDown | int32(1)<<actionPointerIndexShift
	if events[1].Action != wantSecond || len(events[1].Pointers) != 2 {
		t.Fatalf("second event should be POINTER_DOWN|1<<8 with 2 pointers, got %+v", events[1])
	}
	wantThird := actionPointerDown | int32(2)<<actionPointerIndexShift
	if events[2].Action != wantThird || len(events[2].Pointers) != 3 {
		t.Fatalf("third event should be POINTER_DOWN|2<<8 with 3 pointers, got %+v", events[2])
	}
}

func TestExpandMotionEventsMultiPointerUp(t *testing.T) {
	pointers := []accessor.Pointer{{ID: 0}, {ID: 1}, {ID: 2}}
	events := expandMotionEvents(pointers, actionUp, 0, 0, accessor.SourceStylusTouchscreen, 100)
	if len(events) != 3 {
		t.Fatalf("expected 3 events (2 POINTER_UP + final UP), got %d: %+v", len(events), events)
	}
	wantFirst := actionPointerUp | int32(2)<<actionPointerIndexShift
	if events[0].Action != wantFirst {
		t.Fatalf("first event should be POINTER_UP|2<<8 (descending), got %+v", events[0])
	}
	wantSecond := actionPointerUp | int32(1)<<actionPointerIndexShift
	if events[1].Action != wantSecond {
		t.Fatalf("second event should be POINTER_UP|1<<8, got %+v", events[1])
	}
	if events[2].Action != actionUp || len(events[2].Pointers) != 1 {
		t.Fatalf("final event should be plain UP with 1 pointer, got %+v", events[2])
	}
}

func TestMotionSourceRouting(t *testing.T) {
	if got := motionSource(actionHoverMove, 0, 0); got != accessor.SourceMouse {
		t.Errorf("hover-move should route to mouse source, got %v", got)
	}
	if got := motionSource(actionMove, 1, 0); got != accessor.SourceMouse {
		t.Errorf("nonzero action_button should route to mouse source, got %v", got)
	}
	if got := motionSource(actionMove, 0, 1); got != accessor.SourceMouse {
		t.Errorf("nonzero button_state should route to mouse source, got %v", got)
	}
	if got := motionSource(actionMove, 0, 0); got != accessor.SourceStylusTouchscreen {
		t.Errorf("plain touch move should route to combined stylus|touchscreen source, got %v", got)
	}
}

func TestProcessMotionEventRotatesCoordinatesAndWakesDevice(t *testing.T) {
	c, streamers, displays, input, _ := newTestController(t)
	displays.SetInfo(7, accessor.DisplayInfo{
		LogicalWidth: 1080, LogicalHeight: 1920, Rotation: 1, PowerState: accessor.PowerOff,
	})

	msg := &MotionEventMessage{
		Pointers:  []MotionPointer{{X: 5, Y: 5, PointerID: 0}},
		Action:    actionDown,
		DisplayID: 7,
	}
	if err := c.processMotionEvent(msg); err != nil {
		t.Fatalf("processMotionEvent: %v", err)
	}

	// the display is off: ACTION_DOWN must synthesize a wake-up key event
	// (itself a down+up pair) in addition to the motion event.
	if len(input.Events) != 3 {
		t.Fatalf("expected motion event + wake-up down/up pair, got %d: %+v", len(input.Events), input.Events)
	}
	motionEv := input.Events[0]
	if motionEv.Kind != accessor.InputEventMotion || len(motionEv.Pointers) != 1 {
		t.Fatalf("first injected event should be the motion event, got %+v", motionEv)
	}
	// natural size 1920x1080 at rotation 1: (x, y) -> (y, w-1-x)
	if p := motionEv.Pointers[0]; p.X != 5 || p.Y != 1914 {
		t.Errorf("rotated pointer = (%d, %d), want (5, 1914)", p.X, p.Y)
	}
	wakeDown, wakeUp := input.Events[1], input.Events[2]
	if wakeDown.Kind != accessor.InputEventKey || wakeDown.KeyCode != keycodeWakeup || wakeDown.Action != keyActionDown {
		t.Fatalf("second injected event should be the AKEYCODE_WAKEUP key down, got %+v", wakeDown)
	}
	if wakeUp.Kind != accessor.InputEventKey || wakeUp.KeyCode != keycodeWakeup || wakeUp.Action != keyActionUp {
		t.Fatalf("third injected event should be the AKEYCODE_WAKEUP key up, got %+v", wakeUp)
	}
	_ = streamers
}

func TestProcessMotionEventUpRefreshesOrientation(t *testing.T) {
	c, streamers, displays, _, _ := newTestController(t)
	displays.SetInfo(1, accessor.DisplayInfo{LogicalWidth: 1080, LogicalHeight: 1920, PowerState: accessor.PowerOn})

	msg := &MotionEventMessage{Pointers: []MotionPointer{{PointerID: 0}}, Action: actionUp, DisplayID: 1}
	if err := c.processMotionEvent(msg); err != nil {
		t.Fatalf("processMotionEvent: %v", err)
	}
	if len(streamers.refreshed) != 1 || streamers.refreshed[0] != 1 {
		t.Fatalf("ACTION_UP should refresh orientation for display 1, got %+v", streamers.refreshed)
	}
	if streamers.refreshedByDisplay {
		t.Errorf("ACTION_UP refresh should use the video orientation, not the display rotation")
	}
	if c.motionStartMillis != 0 {
		t.Errorf("ACTION_UP should clear the gesture start time")
	}
}

func TestProcessKeyEventDownAndUpSplit(t *testing.T) {
	c, _, _, input, _ := newTestController(t)
	if err := c.processKeyEvent(&KeyEventMessage{Action: ActionDownAndUp, KeyCode: 41}); err != nil {
		t.Fatalf("processKeyEvent: %v", err)
	}
	if len(input.Events) != 2 {
		t.Fatalf("ACTION_DOWN_AND_UP should inject 2 events, got %d", len(input.Events))
	}
	if input.Events[0].Action != keyActionDown || input.Events[1].Action != keyActionUp {
		t.Fatalf("expected DOWN then UP, got %+v", input.Events)
	}
}

func TestProcessKeyEventLiteralAction(t *testing.T) {
	c, _, _, input, _ := newTestController(t)
	if err := c.processKeyEvent(&KeyEventMessage{Action: keyActionUp, KeyCode: 41}); err != nil {
		t.Fatalf("processKeyEvent: %v", err)
	}
	if len(input.Events) != 1 || input.Events[0].Action != keyActionUp {
		t.Fatalf("a literal action should inject exactly once, unchanged, got %+v", input.Events)
	}
}

func TestProcessTextInputSkipsUnmappedUnit(t *testing.T) {
	c, _, _, input, _ := newTestController(t)
	msg := &TextInputMessage{Text: []uint16{0, 'h', 'i'}}
	if err := c.processTextInput(msg); err != nil {
		t.Fatalf("processTextInput: %v", err)
	}
	// unit 0 has no mapping (fake.InputManager.KeyEventsForRune) and is
	// skipped; 'h' and 'i' each produce a down/up pair.
	if len(input.Events) != 4 {
		t.Fatalf("expected 4 injected events (2 mapped units x down/up), got %d", len(input.Events))
	}
}

func TestClipboardSyncGatesByLengthAndDedup(t *testing.T) {
	c, _, _, _, out := newTestController(t)
	clip := c.clipboard.(*fake.ClipboardManager)

	if err := c.processStartClipboardSync(&StartClipboardSyncMessage{MaxSyncedLength: 8, Text: []byte("hello")}); err != nil {
		t.Fatalf("processStartClipboardSync: %v", err)
	}
	got, _ := clip.GetText()
	if got != "hello" {
		t.Fatalf("expected clipboard set to 'hello', got %q", got)
	}

	// external change within budget: should notify.
	clip.SimulateExternalChange("short")
	c.sendClipboardChangedNotification()
	if out.Len() == 0 {
		t.Fatalf("expected a ClipboardChangedNotification to be written")
	}
	out.Reset()

	// external change exceeding the length budget: should be dropped.
	clip.SimulateExternalChange(strings.Repeat("x", 100))
	c.sendClipboardChangedNotification()
	if out.Len() != 0 {
		t.Fatalf("overlong clipboard text should not be notified, wrote %d bytes", out.Len())
	}

	// unchanged text (matches lastClipboardText) should not renotify even
	// if the changed flag is set again.
	clip.SimulateExternalChange("short")
	c.sendClipboardChangedNotification()
	out.Reset()
	c.clipboardChanged.Store(true)
	clip.SetText("short")
	c.sendClipboardChangedNotification()
	if out.Len() != 0 {
		t.Fatalf("re-sending identical text should not notify, wrote %d bytes", out.Len())
	}
}

func TestClipboardSyncStopUnregisters(t *testing.T) {
	c, _, _, _, _ := newTestController(t)
	if err := c.processStartClipboardSync(&StartClipboardSyncMessage{MaxSyncedLength: 100, Text: []byte("x")}); err != nil {
		t.Fatalf("processStartClipboardSync: %v", err)
	}
	c.processStopClipboardSync()
	if c.maxSyncedClipboardLength != 0 {
		t.Fatalf("expected maxSyncedClipboardLength reset to 0 after stop")
	}
	// after stop, an external change should not be observed as "changed"
	// through this controller's listener registration.
	c.clipboardChanged.Store(false)
	clip := c.clipboard.(*fake.ClipboardManager)
	clip.SimulateExternalChange("ignored")
	if c.clipboardChanged.Load() {
		t.Fatalf("clipboard listener should have been unregistered on stop")
	}
}

func TestDeviceStateNotificationOnChange(t *testing.T) {
	displays := fake.NewDisplayManager()
	streamers := newFakeStreamers()
	states := []accessor.DeviceState{{Identifier: 0, Name: "closed"}, {Identifier: 1, Name: "open"}}
	deviceState := fake.NewDeviceStateManager(states, 0)
	var out bytes.Buffer
	w := wire.NewWriter(&out)
	c := New(nil, w, Deps{
		Displays:    displays,
		Window:      fake.NewWindowManager(),
		Clipboard:   &fake.ClipboardManager{},
		DeviceState: deviceState,
		Input:       fake.NewInputManager(),
		Streamers:   streamers,
	})
	if err := c.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	out.Reset()

	deviceState.SimulateBaseStateChange(1)
	if len(streamers.refreshed) != 1 || streamers.refreshed[0] != primaryDisplayID {
		t.Fatalf("device state change should refresh the primary display's orientation, got %+v", streamers.refreshed)
	}
	if !streamers.refreshedByDisplay {
		t.Errorf("device state change should refresh using the display's own rotation")
	}

	c.sendDeviceStateNotification()
	if out.Len() == 0 {
		t.Fatalf("expected a DeviceStateNotification to be written after a real change")
	}
	out.Reset()
	c.sendDeviceStateNotification()
	if out.Len() != 0 {
		t.Fatalf("unchanged state should not renotify, wrote %d bytes", out.Len())
	}
}

func TestRequestDeviceStateCancelClearsOverride(t *testing.T) {
	states := []accessor.DeviceState{{Identifier: 0, Name: "closed"}, {Identifier: 1, Name: "open"}}
	deviceState := fake.NewDeviceStateManager(states, 0)
	var out bytes.Buffer
	c := New(nil, wire.NewWriter(&out), Deps{
		Displays:    fake.NewDisplayManager(),
		Window:      fake.NewWindowManager(),
		Clipboard:   &fake.ClipboardManager{},
		DeviceState: deviceState,
		Input:       fake.NewInputManager(),
		Streamers:   newFakeStreamers(),
	})
	if err := c.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if err := c.processRequestDeviceState(&RequestDeviceStateMessage{StateID: 1}); err != nil {
		t.Fatalf("processRequestDeviceState: %v", err)
	}
	if id, _ := deviceState.GetStateIdentifier(); id != 1 {
		t.Fatalf("override not applied, state = %d", id)
	}

	if err := c.processRequestDeviceState(&RequestDeviceStateMessage{StateID: cancelDeviceStateOverride}); err != nil {
		t.Fatalf("cancel request: %v", err)
	}
	if id, _ := deviceState.GetStateIdentifier(); id != 0 {
		t.Fatalf("override not cleared, state = %d", id)
	}

	// platforms without the cancel API drop the request without error
	deviceState.SupportsCancel = false
	if err := c.processRequestDeviceState(&RequestDeviceStateMessage{StateID: cancelDeviceStateOverride}); err != nil {
		t.Fatalf("cancel on an old platform should be dropped, got %v", err)
	}
}

func TestDisplayEventsQueueAndDrain(t *testing.T) {
	c, _, displays, _, out := newTestController(t)
	c.displays.AddListener(c)

	displays.SetInfo(5, accessor.DisplayInfo{LogicalWidth: 100, LogicalHeight: 100, PowerState: accessor.PowerOn})
	displays.RemoveDisplay(5)

	c.displayMu.Lock()
	n := len(c.pendingDisplayEvents)
	c.displayMu.Unlock()
	if n != 2 {
		t.Fatalf("expected 2 queued display events, got %d", n)
	}

	c.sendPendingDisplayEvents()
	if out.Len() == 0 {
		t.Fatalf("expected display event notifications to be flushed")
	}
	c.displayMu.Lock()
	n = len(c.pendingDisplayEvents)
	c.displayMu.Unlock()
	if n != 0 {
		t.Fatalf("pending display events should be drained after send, got %d remaining", n)
	}
}

func TestSendDisplayConfigurationsFiltersOffAndPrivate(t *testing.T) {
	c, _, displays, _, out := newTestController(t)
	displays.SetInfo(1, accessor.DisplayInfo{LogicalWidth: 1080, LogicalHeight: 1920, PowerState: accessor.PowerOn})
	displays.SetInfo(2, accessor.DisplayInfo{LogicalWidth: 1080, LogicalHeight: 1920, PowerState: accessor.PowerOff})
	displays.SetInfo(3, accessor.DisplayInfo{LogicalWidth: 1080, LogicalHeight: 1920, PowerState: accessor.PowerOn, Flags: accessor.DisplayFlagPrivate})

	if err := c.sendDisplayConfigurations(42); err != nil {
		t.Fatalf("sendDisplayConfigurations: %v", err)
	}
	if out.Len() == 0 {
		t.Fatalf("expected a DisplayConfigurationResponse to be written")
	}
}

func TestDispatchRoutesStreamerMessages(t *testing.T) {
	c, streamers, _, _, _ := newTestController(t)

	if err := c.dispatch(&StartVideoStreamMessage{RequestID: 1, DisplayID: 2, Width: 800, Height: 600}); err != nil {
		t.Fatalf("dispatch StartVideoStream: %v", err)
	}
	if len(streamers.startedVideo) != 1 || streamers.startedVideo[0] != 2 {
		t.Fatalf("expected StartVideoStream forwarded for display 2, got %+v", streamers.startedVideo)
	}

	if err := c.dispatch(&StopVideoStreamMessage{DisplayID: 2}); err != nil {
		t.Fatalf("dispatch StopVideoStream: %v", err)
	}
	if len(streamers.stoppedVideo) != 1 {
		t.Fatalf("expected StopVideoStream forwarded")
	}

	if err := c.dispatch(&StartAudioStreamMessage{}); err != nil || !streamers.audioStarted {
		t.Fatalf("expected StartAudioStream forwarded, err=%v", err)
	}
	if err := c.dispatch(&StopAudioStreamMessage{}); err != nil || !streamers.audioStopped {
		t.Fatalf("expected StopAudioStream forwarded, err=%v", err)
	}

	if err := c.dispatch(&SetDeviceOrientationMessage{Orientation: 2}); err != nil {
		t.Fatalf("dispatch SetDeviceOrientation: %v", err)
	}
	if streamers.orientation != 2 {
		t.Fatalf("expected orientation forwarded to 2, got %d", streamers.orientation)
	}

	if err := c.dispatch(&SetMaxVideoResolutionMessage{DisplayID: 2, Width: 640, Height: 480}); err != nil {
		t.Fatalf("dispatch SetMaxVideoResolution: %v", err)
	}
	if streamers.maxSize[2] != (config.Size{W: 640, H: 480}) {
		t.Fatalf("expected max size forwarded, got %+v", streamers.maxSize[2])
	}
}

// fakeVInput records fast-path injections and can refuse a display to
// force the accessor.InputManager fallback.
type fakeVInput struct {
	displayID int32
	touches   []int32 // pointer ids
	mouse     []int32 // button states
	keys      []int32
}

func (f *fakeVInput) WriteTouchEvent(displayID, pointerID, x, y int32, down bool) (bool, error) {
	if displayID != f.displayID {
		return false, nil
	}
	f.touches = append(f.touches, pointerID)
	return true, nil
}

func (f *fakeVInput) WriteMouseEvent(displayID, x, y int32, buttonState int32) (bool, error) {
	if displayID != f.displayID {
		return false, nil
	}
	f.mouse = append(f.mouse, buttonState)
	return true, nil
}

func (f *fakeVInput) WriteKeyEvent(keyCode, action int32, eventTimeNanos int64) error {
	f.keys = append(f.keys, keyCode)
	return nil
}

func TestVirtualInputFastPathRouting(t *testing.T) {
	c, _, displays, input, _ := newTestController(t)
	vdev := &fakeVInput{displayID: 3}
	c.vinput = vdev
	displays.SetInfo(3, accessor.DisplayInfo{LogicalWidth: 800, LogicalHeight: 600, PowerState: accessor.PowerOn})
	displays.SetInfo(4, accessor.DisplayInfo{LogicalWidth: 800, LogicalHeight: 600, PowerState: accessor.PowerOn})

	touch := &MotionEventMessage{Pointers: []MotionPointer{{X: 10, Y: 20, PointerID: 0}}, Action: actionDown, DisplayID: 3}
	if err := c.processMotionEvent(touch); err != nil {
		t.Fatalf("processMotionEvent(touch): %v", err)
	}
	if len(vdev.touches) != 1 || len(input.Events) != 0 {
		t.Fatalf("touch should take the fast path: vdev=%d injected=%d", len(vdev.touches), len(input.Events))
	}

	mouse := &MotionEventMessage{Pointers: []MotionPointer{{X: 10, Y: 20, PointerID: 0}}, Action: actionMove, ButtonState: 1, DisplayID: 3}
	if err := c.processMotionEvent(mouse); err != nil {
		t.Fatalf("processMotionEvent(mouse): %v", err)
	}
	if len(vdev.mouse) != 1 || vdev.mouse[0] != 1 {
		t.Fatalf("mouse-source event should take the mouse fast path, got %+v", vdev.mouse)
	}

	// a display the virtual devices do not serve falls back to the
	// platform injector
	other := &MotionEventMessage{Pointers: []MotionPointer{{X: 1, Y: 2, PointerID: 0}}, Action: actionMove, DisplayID: 4}
	if err := c.processMotionEvent(other); err != nil {
		t.Fatalf("processMotionEvent(other display): %v", err)
	}
	if len(input.Events) != 1 {
		t.Fatalf("unserved display should fall back to InputManager, got %d events", len(input.Events))
	}
}

func TestDeserializeUnknownTypeIsMalformed(t *testing.T) {
	var buf bytes.Buffer
	r := wire.NewReader(&buf)
	if _, err := Deserialize(9999, r); err != wire.ErrMalformed {
		t.Fatalf("expected ErrMalformed for an unknown type, got %v", err)
	}
}

func TestDeserializeMotionEventRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	_ = w.WriteU32(2) // pointer count
	_ = w.WriteI32(10)
	_ = w.WriteI32(20)
	_ = w.WriteI32(0)
	_ = w.WriteU32(0) // axis count
	_ = w.WriteI32(30)
	_ = w.WriteI32(40)
	_ = w.WriteI32(1)
	_ = w.WriteU32(1) // axis count
	_ = w.WriteI32(9)
	_ = w.WriteF32(0.5)
	_ = w.WriteI32(actionMove)
	_ = w.WriteI32(0)
	_ = w.WriteI32(0)
	_ = w.WriteI32(3)
	if err := w.Flush(0); err != nil {
		t.Fatalf("flush: %v", err)
	}

	r := wire.NewReader(&buf)
	msg, err := deserializeMotionEvent(r)
	if err != nil {
		t.Fatalf("deserializeMotionEvent: %v", err)
	}
	if len(msg.Pointers) != 2 || msg.DisplayID != 3 {
		t.Fatalf("unexpected decode: %+v", msg)
	}
	if msg.Pointers[1].Axes[9] != 0.5 {
		t.Fatalf("expected axis 9 = 0.5, got %+v", msg.Pointers[1].Axes)
	}
}
