package concurrent

import "sync"

// CodecState tracks one codec session's lifecycle: NotStarted -> Running
// -> Stopped, with StopRequested covering the window between codec
// creation and start where a concurrent Stop() must be remembered rather
// than acted on immediately.
type CodecState int

const (
	NotStarted CodecState = iota
	StopRequested
	Running
	Stopped
)

// CodecHandle guards exactly one codec instance per streamer: no
// goroutine may free the codec while another is calling a codec method.
// Only the streamer goroutine transitions it through MarkStarted; any
// goroutine may call Stop.
type CodecHandle struct {
	mu        sync.Mutex
	state     CodecState
	platStop  func() // invokes the platform codec stop; nil once consumed
}

// NewCodecHandle starts a handle in NotStarted, holding the platform stop
// callback to invoke once the codec transitions to Running.
func NewCodecHandle(platformStop func()) *CodecHandle {
	return &CodecHandle{state: NotStarted, platStop: platformStop}
}

// MarkStarted transitions NotStarted -> Running, unless a Stop() already
// arrived while the codec was being created/configured (StopRequested),
// in which case the streamer's outer loop must restart immediately after
// start rather than entering the frame loop.
//
// Returns true if the codec should proceed to the frame loop.
func (h *CodecHandle) MarkStarted() (proceed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case NotStarted:
		h.state = Running
		return true
	case StopRequested:
		h.state = Stopped
		return false
	default:
		return false
	}
}

// Stop may be invoked from the streamer goroutine (recovery) or any other
// goroutine (rotation change, orientation command, resolution change,
// display removed). If the codec has started, it invokes the platform
// stop under the lock and clears the running state. If the codec is
// between creation and start, it records that the streamer's outer loop
// should restart immediately after start.
func (h *CodecHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case Running:
		if h.platStop != nil {
			h.platStop()
		}
		h.state = Stopped
	case NotStarted:
		h.state = StopRequested
	case StopRequested, Stopped:
		// idempotent
	}
}

// State reports the current state, primarily for tests.
func (h *CodecHandle) State() CodecState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// PendingStop reports whether a Stop arrived before the codec started.
func (h *CodecHandle) PendingStop() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == StopRequested
}
