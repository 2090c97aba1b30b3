package platform

import "github.com/screenshare/agent/internal/accessor"

// WindowManager is the unimplemented binder-RPC binding; see platform.go.
type WindowManager struct{}

func NewWindowManager() *WindowManager { return &WindowManager{} }

func (*WindowManager) FreezeRotation(int32, int32) error        { return accessor.ErrUnsupported }
func (*WindowManager) ThawRotation(int32) error                 { return accessor.ErrUnsupported }
func (*WindowManager) IsRotationFrozen(int32) (bool, error)      { return false, accessor.ErrUnsupported }
func (*WindowManager) WatchRotation(int32, accessor.RotationWatcher)        {}
func (*WindowManager) RemoveRotationWatcher(int32, accessor.RotationWatcher) {}
