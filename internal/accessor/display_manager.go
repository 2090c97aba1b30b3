package accessor

// DisplayListener receives fanned-out display lifecycle notifications
//. The accessor registers itself with the platform only
// once and multiplexes to every subscriber via a concurrent.ListenerList.
type DisplayListener interface {
	OnDisplayAdded(id int32)
	OnDisplayRemoved(id int32)
	OnDisplayChanged(id int32)
}

// DisplayManager is the accessor facade over the platform's display
// service.
type DisplayManager interface {
	GetDisplayInfo(id int32) (DisplayInfo, error)
	GetDisplayIDs() ([]int32, error)
	AddListener(l DisplayListener)
	RemoveListener(l DisplayListener)
}
