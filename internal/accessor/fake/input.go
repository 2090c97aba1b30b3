package fake

import (
	"sync"

	"github.com/screenshare/agent/internal/accessor"
)

// InputManager records every injected event for test assertions.
type InputManager struct {
	mu        sync.Mutex
	Events    []accessor.InputEvent
	Ports     map[string]int32
}

func NewInputManager() *InputManager {
	return &InputManager{Ports: map[string]int32{}}
}

func (m *InputManager) InjectInputEvent(ev accessor.InputEvent, mode accessor.SyncMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, ev)
	return nil
}

func (m *InputManager) AddPortAssociation(physName string, displayID int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ports[physName] = displayID
	return nil
}

func (m *InputManager) RemovePortAssociation(physName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Ports, physName)
	return nil
}

// KeyEventsForRune maps every non-zero code unit to a synthetic down/up
// keycode pair whose keycode is the unit's own value (unit 0 reports
// accessor.ErrUnsupported), enough to exercise the translation path in
// tests without a real key character map.
func (m *InputManager) KeyEventsForRune(unit uint16) ([]accessor.InputEvent, error) {
	if unit == 0 {
		return nil, accessor.ErrUnsupported
	}
	keyCode := int32(unit)
	return []accessor.InputEvent{
		{Kind: accessor.InputEventKey, Action: 0, KeyCode: keyCode, Source: accessor.SourceKeyboard},
		{Kind: accessor.InputEventKey, Action: 1, KeyCode: keyCode, Source: accessor.SourceKeyboard},
	}, nil
}
