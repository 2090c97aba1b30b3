package platform

import "github.com/screenshare/agent/internal/accessor"

// InputManager is the unimplemented binder-RPC binding; see platform.go.
// Callers that want injected input on a host running this binding must
// set config.FlagUseUinput so internal/vinput's real kernel-level backend
// is used instead.
type InputManager struct{}

func NewInputManager() *InputManager { return &InputManager{} }

func (*InputManager) InjectInputEvent(accessor.InputEvent, accessor.SyncMode) error {
	return accessor.ErrUnsupported
}

func (*InputManager) AddPortAssociation(string, int32) error { return accessor.ErrUnsupported }
func (*InputManager) RemovePortAssociation(string) error     { return accessor.ErrUnsupported }

func (*InputManager) KeyEventsForRune(uint16) ([]accessor.InputEvent, error) {
	return nil, accessor.ErrUnsupported
}
