package fake

import (
	"sync"

	"github.com/screenshare/agent/internal/accessor"
)

type Surface struct {
	accessor.SurfaceSeal
	name string
}

type DisplayToken struct {
	accessor.DisplayTokenSeal
	id int32
}

type VirtualDisplay struct {
	mu      sync.Mutex
	W, H    int32
	Surface accessor.Surface
	Closed  bool
}

func (v *VirtualDisplay) Resize(w, h, densityDPI int32) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.W, v.H = w, h
	return nil
}

func (v *VirtualDisplay) SetSurface(s accessor.Surface) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Surface = s
	return nil
}

func (v *VirtualDisplay) Release() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Closed = true
	return nil
}

type transaction struct {
	sc *SurfaceControl
}

func (t *transaction) SetSurface(token accessor.DisplayToken, s accessor.Surface) error {
	t.sc.mu.Lock()
	defer t.sc.mu.Unlock()
	t.sc.surfaces[token] = s
	return nil
}

func (t *transaction) SetLayerStack(token accessor.DisplayToken, layerStackID int32) error {
	t.sc.mu.Lock()
	defer t.sc.mu.Unlock()
	t.sc.layerStacks[token] = layerStackID
	return nil
}

func (t *transaction) SetProjection(token accessor.DisplayToken, orientation int32, source, dest accessor.Rect) error {
	t.sc.mu.Lock()
	defer t.sc.mu.Unlock()
	t.sc.projections[token] = projection{orientation, source, dest}
	return nil
}

func (t *transaction) Close() error { return nil }

type projection struct {
	orientation int32
	source      accessor.Rect
	dest        accessor.Rect
}

// SurfaceControl is an in-memory accessor.SurfaceControl. Setting
// VirtualDisplaysUnsupported makes CreateDisplay fail with
// accessor.ErrUnsupported, forcing callers down the display-token path.
type SurfaceControl struct {
	VirtualDisplaysUnsupported bool

	mu          sync.Mutex
	displays    map[*VirtualDisplay]bool
	internal    DisplayToken
	surfaces    map[accessor.DisplayToken]accessor.Surface
	layerStacks map[accessor.DisplayToken]int32
	projections map[accessor.DisplayToken]projection
	powerModes  map[accessor.DisplayToken]accessor.PowerState
}

func NewSurfaceControl() *SurfaceControl {
	return &SurfaceControl{
		displays:    map[*VirtualDisplay]bool{},
		surfaces:    map[accessor.DisplayToken]accessor.Surface{},
		layerStacks: map[accessor.DisplayToken]int32{},
		projections: map[accessor.DisplayToken]projection{},
		powerModes:  map[accessor.DisplayToken]accessor.PowerState{},
	}
}

func (s *SurfaceControl) CreateDisplay(name string, secure bool) (accessor.VirtualDisplay, error) {
	if s.VirtualDisplaysUnsupported {
		return nil, accessor.ErrUnsupported
	}
	vd := &VirtualDisplay{}
	s.mu.Lock()
	s.displays[vd] = true
	s.mu.Unlock()
	return vd, nil
}

func (s *SurfaceControl) GetInternalDisplayToken() (accessor.DisplayToken, error) {
	return s.internal, nil
}

// TokenState reports what the transaction path recorded for token, for
// test assertions against the classical projection path.
func (s *SurfaceControl) TokenState(token accessor.DisplayToken) (accessor.Surface, int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	surface, ok := s.surfaces[token]
	return surface, s.layerStacks[token], ok
}

func (s *SurfaceControl) DestroyDisplay(d accessor.VirtualDisplay) error {
	vd, ok := d.(*VirtualDisplay)
	if !ok {
		return accessor.ErrNotFound
	}
	s.mu.Lock()
	delete(s.displays, vd)
	s.mu.Unlock()
	return vd.Release()
}

func (s *SurfaceControl) OpenTransaction() (accessor.Transaction, error) {
	return &transaction{sc: s}, nil
}

func (s *SurfaceControl) SetPowerMode(token accessor.DisplayToken, mode accessor.PowerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.powerModes[token] = mode
	return nil
}
