package platform

import "github.com/screenshare/agent/internal/accessor"

// DisplayManager is the unimplemented binder-RPC binding; see platform.go.
type DisplayManager struct{}

func NewDisplayManager() *DisplayManager { return &DisplayManager{} }

func (*DisplayManager) GetDisplayInfo(int32) (accessor.DisplayInfo, error) {
	return accessor.DisplayInfo{}, accessor.ErrUnsupported
}

func (*DisplayManager) GetDisplayIDs() ([]int32, error) {
	return nil, accessor.ErrUnsupported
}

func (*DisplayManager) AddListener(accessor.DisplayListener)    {}
func (*DisplayManager) RemoveListener(accessor.DisplayListener) {}
