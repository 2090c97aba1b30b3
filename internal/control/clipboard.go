package control

import (
	"unicode/utf8"

	"github.com/screenshare/agent/internal/accessor"
)

// processStartClipboardSync sets the device clipboard if the peer's text
// differs, registers the listener on a 0->nonzero max-length transition,
// and remembers the length cap so sendClipboardChangedNotification can
// gate future notifications by it.
func (c *Controller) processStartClipboardSync(m *StartClipboardSyncMessage) error {
	wasStopped := c.maxSyncedClipboardLength == 0
	text := string(m.Text)

	current, err := c.clipboard.GetText()
	if err != nil {
		return err
	}
	if current != text {
		if err := c.clipboard.SetText(text); err != nil {
			return err
		}
	}
	c.lastClipboardText = text
	c.maxSyncedClipboardLength = m.MaxSyncedLength

	if wasStopped && c.maxSyncedClipboardLength != 0 {
		c.clipboard.AddListener(c)
	}
	return nil
}

// processStopClipboardSync unregisters and clears state only if sync was
// actually active.
func (c *Controller) processStopClipboardSync() {
	if c.maxSyncedClipboardLength == 0 {
		return
	}
	c.clipboard.RemoveListener(c)
	c.maxSyncedClipboardLength = 0
	c.lastClipboardText = ""
}

// OnClipboardChanged is the accessor.ClipboardListener hook; it only flips
// an atomic flag, deferring the
// actual read+notify to the controller's own tick so it always runs on
// the controller goroutine.
func (c *Controller) OnClipboardChanged() { c.clipboardChanged.Store(true) }

// sendClipboardChangedNotification performs an atomic compare-and-clear
// of the changed flag, then a UTF-8 byte-budget and Unicode code-point
// gate before emitting.
func (c *Controller) sendClipboardChangedNotification() {
	if c.maxSyncedClipboardLength == 0 {
		return
	}
	if !c.clipboardChanged.Swap(false) {
		return
	}
	text, err := c.clipboard.GetText()
	if err != nil || text == "" || text == c.lastClipboardText {
		return
	}
	maxLength := int(c.maxSyncedClipboardLength)
	if len(text) > maxLength*utf8MaxBytesPerCharacter || utf8.RuneCountInString(text) > maxLength {
		return
	}
	c.lastClipboardText = text
	if err := writeClipboardChangedNotification(c.writer, []byte(text)); err != nil {
		return
	}
	_ = c.writer.Flush(0)
}

var _ accessor.ClipboardListener = (*Controller)(nil)
