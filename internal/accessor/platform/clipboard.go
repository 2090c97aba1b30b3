package platform

import (
	"sync"
	"time"

	"golang.design/x/clipboard"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/concurrent"
	"github.com/screenshare/agent/internal/logging"
)

// pollInterval is how often ClipboardManager checks for an external
// clipboard change; the platform has no change-notification API reachable
// outside its own process, only a poll-based read.
const pollInterval = 500 * time.Millisecond

// ClipboardManager is the real accessor.ClipboardManager, backed by
// golang.design/x/clipboard. It polls rather than subscribes because the
// underlying library exposes only blocking Watch(ctx) channels scoped to
// one format, not a change callback the listener-list pattern can drive
// directly.
type ClipboardManager struct {
	mu        sync.Mutex
	lastText  string
	listeners concurrent.ListenerList[accessor.ClipboardListener]

	stop chan struct{}
	once sync.Once
}

// NewClipboardManager initializes the platform clipboard backend. Returns
// accessor.ErrUnsupported if no clipboard is reachable (e.g. headless X11
// with no clipboard manager running).
func NewClipboardManager() (*ClipboardManager, error) {
	if err := clipboard.Init(); err != nil {
		return nil, accessor.ErrUnsupported
	}
	c := &ClipboardManager{stop: make(chan struct{})}
	c.lastText, _ = c.GetText()
	go c.pollLoop()
	return c, nil
}

func (c *ClipboardManager) GetText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (c *ClipboardManager) SetText(s string) error {
	// Write's returned channel only fires when another writer later takes
	// the clipboard over; receiving from it here would block until then.
	clipboard.Write(clipboard.FmtText, []byte(s))
	c.mu.Lock()
	c.lastText = s
	c.mu.Unlock()
	return nil
}

func (c *ClipboardManager) AddListener(l accessor.ClipboardListener) int {
	return c.listeners.Add(l)
}

func (c *ClipboardManager) RemoveListener(l accessor.ClipboardListener) int {
	return c.listeners.Remove(l)
}

// Close stops the poll loop; safe to call more than once.
func (c *ClipboardManager) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *ClipboardManager) pollLoop() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			text := string(clipboard.Read(clipboard.FmtText))
			c.mu.Lock()
			changed := text != c.lastText
			c.lastText = text
			c.mu.Unlock()
			if changed {
				if c.listeners.Len() == 0 {
					continue
				}
				logging.Debugf("platform: clipboard changed externally")
				c.listeners.ForEach(func(l accessor.ClipboardListener) { l.OnClipboardChanged() })
			}
		}
	}
}
