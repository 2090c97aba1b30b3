package fake

import (
	"sync"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/concurrent"
)

// DeviceStateManager is an in-memory accessor.DeviceStateManager.
// SupportsCancel controls whether CancelStateRequest succeeds, modeling
// the older platforms that lack the cancel API.
type DeviceStateManager struct {
	mu             sync.Mutex
	supported      []accessor.DeviceState
	base           int32
	override       *int32
	SupportsCancel bool
	listeners      concurrent.ListenerList[accessor.DeviceStateListener]
}

func NewDeviceStateManager(supported []accessor.DeviceState, base int32) *DeviceStateManager {
	return &DeviceStateManager{supported: supported, base: base, SupportsCancel: true}
}

func (d *DeviceStateManager) GetSupportedStates() ([]accessor.DeviceState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]accessor.DeviceState{}, d.supported...), nil
}

func (d *DeviceStateManager) GetStateIdentifier() (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.override != nil {
		return *d.override, nil
	}
	return d.base, nil
}

func (d *DeviceStateManager) RequestState(identifier int32, flags uint32) error {
	d.mu.Lock()
	d.override = &identifier
	d.mu.Unlock()
	d.notify()
	return nil
}

func (d *DeviceStateManager) CancelStateRequest() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.SupportsCancel {
		return accessor.ErrUnsupported
	}
	d.override = nil
	return nil
}

func (d *DeviceStateManager) AddListener(l accessor.DeviceStateListener)    { d.listeners.Add(l) }
func (d *DeviceStateManager) RemoveListener(l accessor.DeviceStateListener) { d.listeners.Remove(l) }

func (d *DeviceStateManager) notify() {
	id, _ := d.GetStateIdentifier()
	d.listeners.ForEach(func(l accessor.DeviceStateListener) { l.OnDeviceStateChanged(id) })
}

// SimulateBaseStateChange models the hardware folding/unfolding
// independent of any override, canceling any active override: a
// physical posture change always wins over a requested one.
func (d *DeviceStateManager) SimulateBaseStateChange(identifier int32) {
	d.mu.Lock()
	d.base = identifier
	hadOverride := d.override != nil
	d.override = nil
	d.mu.Unlock()
	if hadOverride {
		_ = d.CancelStateRequest()
	}
	d.notify()
}
