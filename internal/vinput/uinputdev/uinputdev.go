//go:build linux

// Package uinputdev implements the virtual-input fast path by driving the
// Linux kernel's uinput module directly: a virtual keyboard and a virtual
// protocol-B multi-touch touchscreen, registered through the usual
// event/key/abs-bit ioctl sequence and destroyed on Close.
package uinputdev

import (
	"os"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/screenshare/agent/internal/logging"
)

const uinputPath = "/dev/uinput"

// Linux uinput ioctl numbers (linux/uinput.h). golang.org/x/sys/unix does
// not export these — they are computed the same way bendahl/uinput and the
// kernel header do, via the standard _IO/_IOW macros.
const (
	uiSetEvBit  = 0x40045564
	uiSetKeyBit = 0x40045565
	uiSetRelBit = 0x40045566
	uiSetAbsBit = 0x40045567
	uiDevCreate = 0x5501
	uiDevDestroy = 0x5502
	uiDevSetup  = 0x405c5503
	uiAbsSetup  = 0x401c5504
)

// Linux input-event-codes.h subset this package writes.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0

	absMtSlot       = 0x2f
	absMtTouchMajor = 0x30
	absMtPositionX  = 0x35
	absMtPositionY  = 0x36
	absMtTrackingID = 0x39
	absMtPressure   = 0x3a

	absX = 0x00
	absY = 0x01

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
	btnTouch  = 0x14a

	busVirtual = 0x06
)

// Android MotionEvent button-state bits, mapped onto the evdev BTN_ codes
// above in mouseButtons.
const (
	buttonPrimary   int32 = 1 << 0
	buttonSecondary int32 = 1 << 1
	buttonTertiary  int32 = 1 << 2
)

var mouseButtons = []struct {
	mask int32
	code uint16
}{
	{buttonPrimary, btnLeft},
	{buttonSecondary, btnRight},
	{buttonTertiary, btnMiddle},
}

const maxPointers = 10

// inputEvent mirrors struct input_event on 64-bit Linux: two 8-byte timeval
// fields followed by type/code/value.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// uinputSetup mirrors struct uinput_setup.
type uinputSetup struct {
	ID      inputID
	Name    [80]byte
	FFEffectsMax uint32
}

type inputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputAbsSetup mirrors struct uinput_abs_setup.
type uinputAbsSetup struct {
	Code     uint16
	_        [2]byte
	AbsInfo  absInfo
}

type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// Device is a trio of uinput nodes — keyboard, touchscreen, and an
// absolute-pointer mouse — sized to one display's resolution at creation
// time.
type Device struct {
	keyboard    *os.File
	touchscreen *os.File
	mouse       *os.File

	displayID    int32
	trackingIDs  [maxPointers]bool
	mouseButtons int32
}

// New creates a virtual keyboard, a width x height virtual touchscreen,
// and a virtual mouse for the given display. Requires read/write access
// to /dev/uinput.
func New(displayID, width, height int32) (*Device, error) {
	kb, err := createKeyboard()
	if err != nil {
		return nil, errors.Wrap(err, "uinputdev: create keyboard")
	}
	ts, err := createTouchscreen(width, height)
	if err != nil {
		kb.Close()
		return nil, errors.Wrap(err, "uinputdev: create touchscreen")
	}
	mouse, err := createMouse(width, height)
	if err != nil {
		destroyDevice(ts)
		kb.Close()
		return nil, errors.Wrap(err, "uinputdev: create mouse")
	}
	return &Device{keyboard: kb, touchscreen: ts, mouse: mouse, displayID: displayID}, nil
}

// Close destroys every uinput node. Safe to call once.
func (d *Device) Close() error {
	var firstErr error
	for _, f := range []*os.File{d.mouse, d.touchscreen, d.keyboard} {
		if f == nil {
			continue
		}
		if err := destroyDevice(f); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WriteKeyEvent injects a keyboard key event, translating the Android
// keycode to the matching Linux evdev keycode (keycodeMapping).
func (d *Device) WriteKeyEvent(keyCode, action int32, eventTimeNanos int64) error {
	evKeyCode, ok := keycodeMapping[keyCode]
	if !ok {
		logging.Warnf("uinputdev: unsupported android keycode %d", keyCode)
		return nil
	}
	value := int32(0)
	if action == keyActionDown {
		value = 1
	}
	t := time.Duration(eventTimeNanos)
	if err := writeEvent(d.keyboard, evKey, evKeyCode, value, t); err != nil {
		return err
	}
	return writeEvent(d.keyboard, evSyn, synReport, 0, t)
}

const keyActionDown = 0

// WriteTouchEvent injects one pointer contact on this device's touchscreen.
// Returns true when the event was written; false, with no error, for any
// other display or a pointer id outside 0..maxPointers-1.
func (d *Device) WriteTouchEvent(displayID, pointerID, x, y int32, down bool) (bool, error) {
	if displayID != d.displayID {
		return false, nil
	}
	if pointerID < 0 || pointerID >= maxPointers {
		return false, errors.Errorf("uinputdev: pointer id %d out of range", pointerID)
	}
	t := time.Duration(time.Now().UnixNano())
	if err := writeEvent(d.touchscreen, evAbs, absMtSlot, pointerID, t); err != nil {
		return true, err
	}
	if !down {
		if !d.trackingIDs[pointerID] {
			return true, nil
		}
		d.trackingIDs[pointerID] = false
		if err := writeEvent(d.touchscreen, evAbs, absMtTrackingID, -1, t); err != nil {
			return true, err
		}
		return true, writeEvent(d.touchscreen, evSyn, synReport, 0, t)
	}
	if !d.trackingIDs[pointerID] {
		d.trackingIDs[pointerID] = true
		if err := writeEvent(d.touchscreen, evAbs, absMtTrackingID, pointerID, t); err != nil {
			return true, err
		}
	}
	if err := writeEvent(d.touchscreen, evAbs, absMtPositionX, x, t); err != nil {
		return true, err
	}
	if err := writeEvent(d.touchscreen, evAbs, absMtPositionY, y, t); err != nil {
		return true, err
	}
	return true, writeEvent(d.touchscreen, evSyn, synReport, 0, t)
}

// WriteMouseEvent moves the absolute mouse pointer to (x, y) and applies
// buttonState, pressing and releasing evdev buttons on mask transitions.
func (d *Device) WriteMouseEvent(displayID, x, y int32, buttonState int32) (bool, error) {
	if displayID != d.displayID {
		return false, nil
	}
	t := time.Duration(time.Now().UnixNano())
	if err := writeEvent(d.mouse, evAbs, absX, x, t); err != nil {
		return true, err
	}
	if err := writeEvent(d.mouse, evAbs, absY, y, t); err != nil {
		return true, err
	}
	for _, b := range mouseButtons {
		was := d.mouseButtons&b.mask != 0
		is := buttonState&b.mask != 0
		if was == is {
			continue
		}
		value := int32(0)
		if is {
			value = 1
		}
		if err := writeEvent(d.mouse, evKey, b.code, value, t); err != nil {
			return true, err
		}
	}
	d.mouseButtons = buttonState
	return true, writeEvent(d.mouse, evSyn, synReport, 0, t)
}

func writeEvent(f *os.File, typ, code uint16, value int32, t time.Duration) error {
	ev := inputEvent{
		Sec:   int64(t / time.Second),
		Usec:  int64((t % time.Second) / time.Microsecond),
		Type:  typ,
		Code:  code,
		Value: value,
	}
	buf := (*[unsafe.Sizeof(inputEvent{})]byte)(unsafe.Pointer(&ev))[:]
	_, err := f.Write(buf)
	return err
}

func ioctlInt(f *os.File, req uintptr, val uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, val)
	if errno != 0 {
		return errno
	}
	return nil
}

func ioctlPtr(f *os.File, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func createKeyboard() (*os.File, error) {
	f, err := os.OpenFile(uinputPath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}
	if err := ioctlInt(f, uiSetEvBit, evKey); err != nil {
		f.Close()
		return nil, err
	}
	for _, code := range keycodeMapping {
		if err := ioctlInt(f, uiSetKeyBit, uintptr(code)); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := finishSetup(f, "agent-keyboard"); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func createTouchscreen(width, height int32) (*os.File, error) {
	f, err := os.OpenFile(uinputPath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}
	if err := ioctlInt(f, uiSetEvBit, evAbs); err != nil {
		f.Close()
		return nil, err
	}
	if err := ioctlInt(f, uiSetEvBit, evKey); err != nil {
		f.Close()
		return nil, err
	}
	if err := ioctlInt(f, uiSetKeyBit, btnTouch); err != nil {
		f.Close()
		return nil, err
	}
	for _, code := range []uintptr{absMtSlot, absMtPositionX, absMtPositionY, absMtTrackingID, absMtTouchMajor, absMtPressure} {
		if err := ioctlInt(f, uiSetAbsBit, code); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := setAbs(f, absMtSlot, 0, maxPointers-1); err != nil {
		f.Close()
		return nil, err
	}
	if err := setAbs(f, absMtPositionX, 0, width-1); err != nil {
		f.Close()
		return nil, err
	}
	if err := setAbs(f, absMtPositionY, 0, height-1); err != nil {
		f.Close()
		return nil, err
	}
	if err := setAbs(f, absMtTrackingID, 0, 65535); err != nil {
		f.Close()
		return nil, err
	}
	if err := finishSetup(f, "agent-touchscreen"); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func createMouse(width, height int32) (*os.File, error) {
	f, err := os.OpenFile(uinputPath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}
	if err := ioctlInt(f, uiSetEvBit, evAbs); err != nil {
		f.Close()
		return nil, err
	}
	if err := ioctlInt(f, uiSetEvBit, evKey); err != nil {
		f.Close()
		return nil, err
	}
	for _, b := range mouseButtons {
		if err := ioctlInt(f, uiSetKeyBit, uintptr(b.code)); err != nil {
			f.Close()
			return nil, err
		}
	}
	for _, code := range []uintptr{absX, absY} {
		if err := ioctlInt(f, uiSetAbsBit, code); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := setAbs(f, absX, 0, width-1); err != nil {
		f.Close()
		return nil, err
	}
	if err := setAbs(f, absY, 0, height-1); err != nil {
		f.Close()
		return nil, err
	}
	if err := finishSetup(f, "agent-mouse"); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func setAbs(f *os.File, code uint16, min, max int32) error {
	setup := uinputAbsSetup{Code: code, AbsInfo: absInfo{Minimum: min, Maximum: max}}
	return ioctlPtr(f, uiAbsSetup, unsafe.Pointer(&setup))
}

func finishSetup(f *os.File, name string) error {
	var setup uinputSetup
	setup.ID = inputID{BusType: busVirtual, Vendor: 0x18d1, Product: 0x0001, Version: 1}
	copy(setup.Name[:], name)
	if err := ioctlPtr(f, uiDevSetup, unsafe.Pointer(&setup)); err != nil {
		return err
	}
	return ioctlInt(f, uiDevCreate, 0)
}

func destroyDevice(f *os.File) error {
	err := ioctlInt(f, uiDevDestroy, 0)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}
