package fake

import (
	"sync"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/concurrent"
)

// ClipboardManager is an in-memory accessor.ClipboardManager.
type ClipboardManager struct {
	mu        sync.Mutex
	text      string
	listeners concurrent.ListenerList[accessor.ClipboardListener]
}

func (c *ClipboardManager) GetText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *ClipboardManager) SetText(s string) error {
	c.mu.Lock()
	c.text = s
	c.mu.Unlock()
	return nil
}

func (c *ClipboardManager) AddListener(l accessor.ClipboardListener) int {
	return c.listeners.Add(l)
}

func (c *ClipboardManager) RemoveListener(l accessor.ClipboardListener) int {
	return c.listeners.Remove(l)
}

// SimulateExternalChange sets the clipboard text as if the platform's own
// UI changed it, firing listeners exactly the way the real service would.
func (c *ClipboardManager) SimulateExternalChange(s string) {
	c.mu.Lock()
	c.text = s
	c.mu.Unlock()
	c.listeners.ForEach(func(l accessor.ClipboardListener) { l.OnClipboardChanged() })
}
