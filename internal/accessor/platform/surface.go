package platform

import "github.com/screenshare/agent/internal/accessor"

// SurfaceControl is the unimplemented binder-RPC binding; see platform.go.
type SurfaceControl struct{}

func NewSurfaceControl() *SurfaceControl { return &SurfaceControl{} }

func (*SurfaceControl) CreateDisplay(string, bool) (accessor.VirtualDisplay, error) {
	return nil, accessor.ErrUnsupported
}

func (*SurfaceControl) DestroyDisplay(accessor.VirtualDisplay) error {
	return accessor.ErrUnsupported
}

func (*SurfaceControl) GetInternalDisplayToken() (accessor.DisplayToken, error) {
	return nil, accessor.ErrUnsupported
}

func (*SurfaceControl) OpenTransaction() (accessor.Transaction, error) {
	return nil, accessor.ErrUnsupported
}

func (*SurfaceControl) SetPowerMode(accessor.DisplayToken, accessor.PowerState) error {
	return accessor.ErrUnsupported
}
