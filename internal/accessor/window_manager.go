package accessor

// RotationWatcher is notified when a display's rotation changes.
// Watchers are grouped per display; the accessor registers itself
// with the platform only once per display and multiplexes incoming
// rotation events to its subscribers via a concurrent.ListenerList keyed
// by display id.
type RotationWatcher interface {
	OnRotationChanged(rotation int32)
}

// WindowManager is the accessor facade over the platform's window/rotation
// service.
type WindowManager interface {
	FreezeRotation(displayID int32, rotation int32) error
	ThawRotation(displayID int32) error
	IsRotationFrozen(displayID int32) (bool, error)
	WatchRotation(displayID int32, w RotationWatcher)
	RemoveRotationWatcher(displayID int32, w RotationWatcher)
}
