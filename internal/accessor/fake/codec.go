package fake

import (
	"sync"

	"github.com/screenshare/agent/internal/accessor"
)

// codecEvent is one simulated Dequeue() result, pushed by a test via
// Codec.Push*.
type codecEvent struct {
	buf accessor.OutputBuffer
	err error
}

// Codec is an in-memory accessor.Codec a test drives by pushing dequeue
// results (frames, errors, end-of-stream) onto an internal queue.
type Codec struct {
	mu         sync.Mutex
	cfg        accessor.EncoderConfig
	queue      chan codecEvent
	stopCh     chan struct{}
	stopped    bool
	started    bool
	SyncFrames int // incremented on every RequestSyncFrame
	BitRates   []int32
}

func NewCodec() *Codec {
	return &Codec{queue: make(chan codecEvent, 64), stopCh: make(chan struct{})}
}

func (c *Codec) Configure(cfg accessor.EncoderConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.BitRates = append(c.BitRates, cfg.BitRate)
	return nil
}

func (c *Codec) CreateInputSurface() (accessor.Surface, error) {
	return Surface{name: "input"}, nil
}

func (c *Codec) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true
	return nil
}

func (c *Codec) Dequeue() (accessor.OutputBuffer, error) {
	select {
	case ev := <-c.queue:
		return ev.buf, ev.err
	case <-c.stopCh:
		return accessor.OutputBuffer{}, accessor.ErrStopped
	}
}

func (c *Codec) RequestSyncFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SyncFrames++
}

func (c *Codec) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stopped {
		c.stopped = true
		close(c.stopCh)
	}
	return nil
}

func (c *Codec) Release() error { return nil }

// PushFrame enqueues a successful dequeue result.
func (c *Codec) PushFrame(data []byte, presentationTimeUs int64, isConfig bool) {
	c.queue <- codecEvent{buf: accessor.OutputBuffer{Data: data, PresentationTimeUs: presentationTimeUs, IsConfig: isConfig}}
}

// PushEndOfStream enqueues a buffer carrying the end-of-stream flag.
func (c *Codec) PushEndOfStream() {
	c.queue <- codecEvent{buf: accessor.OutputBuffer{IsEndOfStream: true}}
}

// PushError enqueues a Dequeue failure (simulating a transient encoder error).
func (c *Codec) PushError(err error) {
	c.queue <- codecEvent{err: err}
}

// CurrentBitRate returns the last value applied via Configure.
func (c *Codec) CurrentBitRate() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.BitRate
}

// CodecProvider is an in-memory accessor.CodecProvider. NewFn, if set,
// builds the Codec returned by Acquire (defaulting to NewCodec()),
// letting a test retain a handle to the exact instance the streamer will
// drive.
type CodecProvider struct {
	Info  accessor.CodecInfo
	NewFn func() *Codec
}

func (p *CodecProvider) FindEncoder(mimeType string) (accessor.CodecInfo, error) {
	if p.Info.MimeType == "" {
		return accessor.CodecInfo{}, accessor.ErrNotFound
	}
	return p.Info, nil
}

func (p *CodecProvider) Acquire(info accessor.CodecInfo) (accessor.Codec, error) {
	if p.NewFn != nil {
		return p.NewFn(), nil
	}
	return NewCodec(), nil
}
