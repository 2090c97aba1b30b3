package fake

import (
	"sync"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/concurrent"
)

// WindowManager is an in-memory accessor.WindowManager. Rotation watchers
// are grouped per display, matching the real accessor's "register with
// the platform once per display, fan out to subscribers" behavior
//.
type WindowManager struct {
	mu       sync.Mutex
	frozen   map[int32]int32 // displayID -> frozen rotation, absent if thawed
	watchers map[int32]*concurrent.ListenerList[accessor.RotationWatcher]
}

func NewWindowManager() *WindowManager {
	return &WindowManager{
		frozen:   map[int32]int32{},
		watchers: map[int32]*concurrent.ListenerList[accessor.RotationWatcher]{},
	}
}

func (w *WindowManager) FreezeRotation(displayID, rotation int32) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frozen[displayID] = rotation
	return nil
}

func (w *WindowManager) ThawRotation(displayID int32) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.frozen, displayID)
	return nil
}

func (w *WindowManager) IsRotationFrozen(displayID int32) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.frozen[displayID]
	return ok, nil
}

func (w *WindowManager) listenerList(displayID int32) *concurrent.ListenerList[accessor.RotationWatcher] {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.watchers[displayID]
	if !ok {
		l = &concurrent.ListenerList[accessor.RotationWatcher]{}
		w.watchers[displayID] = l
	}
	return l
}

func (w *WindowManager) WatchRotation(displayID int32, watcher accessor.RotationWatcher) {
	w.listenerList(displayID).Add(watcher)
}

func (w *WindowManager) RemoveRotationWatcher(displayID int32, watcher accessor.RotationWatcher) {
	w.listenerList(displayID).Remove(watcher)
}

// FireRotation simulates the platform callback for displayID.
func (w *WindowManager) FireRotation(displayID, rotation int32) {
	w.listenerList(displayID).ForEach(func(r accessor.RotationWatcher) {
		r.OnRotationChanged(rotation)
	})
}
