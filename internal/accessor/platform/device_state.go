package platform

import "github.com/screenshare/agent/internal/accessor"

// DeviceStateManager is the unimplemented binder-RPC binding; see
// platform.go. A host with no foldable device-state service reports zero
// supported states, which the controller reads as "single-state device"
// rather than treating as an error.
type DeviceStateManager struct{}

func NewDeviceStateManager() *DeviceStateManager { return &DeviceStateManager{} }

func (*DeviceStateManager) GetSupportedStates() ([]accessor.DeviceState, error) {
	return nil, nil
}

func (*DeviceStateManager) GetStateIdentifier() (int32, error) {
	return 0, accessor.ErrUnsupported
}

func (*DeviceStateManager) RequestState(int32, uint32) error { return accessor.ErrUnsupported }
func (*DeviceStateManager) CancelStateRequest() error        { return accessor.ErrUnsupported }
func (*DeviceStateManager) AddListener(accessor.DeviceStateListener)    {}
func (*DeviceStateManager) RemoveListener(accessor.DeviceStateListener) {}
