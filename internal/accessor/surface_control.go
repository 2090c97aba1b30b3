package accessor

// DisplayToken is an opaque handle to a classical (non-virtual-display-API)
// display, obtained via API path B.
type DisplayToken interface{ isDisplayToken() }

// DisplayTokenSeal is embedded by out-of-package DisplayToken
// implementations (e.g. internal/accessor/fake) to satisfy the unexported
// isDisplayToken method.
type DisplayTokenSeal struct{}

func (DisplayTokenSeal) isDisplayToken() {}

// VirtualDisplay is an off-screen display surface the encoder draws into;
// the platform composites the chosen layer stack onto it. Obtained via API path A.
type VirtualDisplay interface {
	Resize(w, h, densityDPI int32) error
	SetSurface(surface Surface) error
	Release() error
}

// Surface is the encoder's input surface, bound to a VirtualDisplay or
// display token.
type Surface interface{ isSurface() }

// SurfaceSeal is embedded by out-of-package Surface implementations (e.g.
// internal/accessor/fake) to satisfy the unexported isSurface method.
type SurfaceSeal struct{}

func (SurfaceSeal) isSurface() {}

// SurfaceControl is the accessor facade over surface/virtual-display
// platform operations.
type SurfaceControl interface {
	CreateDisplay(name string, secure bool) (VirtualDisplay, error)
	DestroyDisplay(d VirtualDisplay) error

	// Classical path: obtain the built-in display's token, then open a
	// transaction, set surface, set layer stack, set projection
	// rectangles, close. ConfigureProjection wraps the transaction steps.
	// GetInternalDisplayToken returns ErrNotFound when the platform has
	// no built-in display token to hand out.
	GetInternalDisplayToken() (DisplayToken, error)
	OpenTransaction() (Transaction, error)
	SetPowerMode(token DisplayToken, mode PowerState) error
}

// Transaction is the surface-control transaction handle.
type Transaction interface {
	SetSurface(token DisplayToken, s Surface) error
	SetLayerStack(token DisplayToken, layerStackID int32) error
	SetProjection(token DisplayToken, orientation int32, source, dest Rect) error
	Close() error
}

// ConfigureProjection opens a transaction, calls SetSurface, SetLayerStack,
// and SetProjection in order, and closes it.
func ConfigureProjection(sc SurfaceControl, token DisplayToken, s Surface, layerStackID, orientation int32, source, dest Rect) error {
	tx, err := sc.OpenTransaction()
	if err != nil {
		return err
	}
	defer tx.Close()
	if err := tx.SetSurface(token, s); err != nil {
		return err
	}
	if err := tx.SetLayerStack(token, layerStackID); err != nil {
		return err
	}
	return tx.SetProjection(token, orientation, source, dest)
}
