// Package fake provides in-process implementations of every
// internal/accessor interface, standing in for the platform system
// services the agent only ever drives through their contracts. Used by
// internal/streamer and internal/control tests.
package fake

import (
	"sync"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/concurrent"
)

// DisplayManager is an in-memory accessor.DisplayManager a test can
// mutate directly (SetInfo, AddDisplay, RemoveDisplay) to drive
// notifications.
type DisplayManager struct {
	mu        sync.Mutex
	infos     map[int32]accessor.DisplayInfo
	listeners concurrent.ListenerList[accessor.DisplayListener]
}

func NewDisplayManager() *DisplayManager {
	return &DisplayManager{infos: map[int32]accessor.DisplayInfo{}}
}

func (d *DisplayManager) GetDisplayInfo(id int32) (accessor.DisplayInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	info, ok := d.infos[id]
	if !ok {
		return accessor.DisplayInfo{}, accessor.ErrNotFound
	}
	return info, nil
}

func (d *DisplayManager) GetDisplayIDs() ([]int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]int32, 0, len(d.infos))
	for id := range d.infos {
		ids = append(ids, id)
	}
	return ids, nil
}

func (d *DisplayManager) AddListener(l accessor.DisplayListener)    { d.listeners.Add(l) }
func (d *DisplayManager) RemoveListener(l accessor.DisplayListener) { d.listeners.Remove(l) }

// SetInfo installs/updates a display and fires OnDisplayAdded the first
// time, OnDisplayChanged thereafter.
func (d *DisplayManager) SetInfo(id int32, info accessor.DisplayInfo) {
	d.mu.Lock()
	_, existed := d.infos[id]
	d.infos[id] = info
	d.mu.Unlock()

	if existed {
		d.listeners.ForEach(func(l accessor.DisplayListener) { l.OnDisplayChanged(id) })
	} else {
		d.listeners.ForEach(func(l accessor.DisplayListener) { l.OnDisplayAdded(id) })
	}
}

func (d *DisplayManager) RemoveDisplay(id int32) {
	d.mu.Lock()
	delete(d.infos, id)
	d.mu.Unlock()
	d.listeners.ForEach(func(l accessor.DisplayListener) { l.OnDisplayRemoved(id) })
}
