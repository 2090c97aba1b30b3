package accessor

// SyncMode controls whether InjectInputEvent waits for the event to finish
// dispatching.
type SyncMode int

const (
	SyncNone SyncMode = iota
	SyncWaitForResult
	SyncWaitForFinish
)

// InputEvent is the minimal event shape the controller builds from a
// ControlMessage before injection — a union sufficient for motion, key,
// and wake events.
type InputEvent struct {
	Kind       InputEventKind
	Action     int32
	EventTime  int64
	DownTime   int64
	Source     InputSource
	// Motion-specific
	Pointers     []Pointer
	ButtonState  int32
	ActionButton int32
	// Key-specific
	KeyCode   int32
	MetaState uint32
}

type InputEventKind int

const (
	InputEventMotion InputEventKind = iota
	InputEventKey
)

type InputSource int

const (
	SourceTouchscreen InputSource = iota
	SourceStylus
	SourceMouse
	SourceKeyboard
	// SourceStylusTouchscreen is the combined stylus|touchscreen source the
	// platform injector uses by default for pointer gestures that are
	// neither a hover-move nor carry mouse button state.
	SourceStylusTouchscreen
)

// Pointer is one finger/stylus contact within a MotionEvent, already
// rotated into the display's current orientation by the controller
//.
type Pointer struct {
	ID   int32
	X, Y int32
	Axes map[int32]float32
}

// InputManager is the accessor facade over the platform's input injector
//.
type InputManager interface {
	InjectInputEvent(ev InputEvent, mode SyncMode) error
	AddPortAssociation(physName string, displayID int32) error
	RemovePortAssociation(physName string) error

	// KeyEventsForRune maps one UTF-16 code unit through the platform's key
	// character map, returning the down/up
	// event pairs needed to type it. ErrUnsupported if the code unit has no
	// mapping on the current keyboard layout.
	KeyEventsForRune(unit uint16) ([]InputEvent, error)
}
