// Package streamer implements one display streamer per mirrored display:
// it configures the hardware encoder, owns a virtual display surface,
// pumps encoded frames to the video channel, and reacts to rotation,
// resize, and encoder-stall triggers by restarting its codec session.
package streamer

import (
	"errors"
	"sync"
	"time"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/concurrent"
	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/fatal"
	"github.com/screenshare/agent/internal/logging"
	"github.com/screenshare/agent/internal/wire"
)

// FrameWriter is the shared-video-socket write path. All streamers share
// the single video socket; internal/session serializes concurrent frames
// through one mutex-guarded wire.Writer.
type FrameWriter interface {
	WriteFrame(header *wire.VideoPacketHeader, payload []byte) error
}

const (
	maxConsecutiveDequeueErrors = 5
	iFrameInterval              = 10 * time.Second
	repeatFrameAfter            = 100 * time.Millisecond
	videoWriteDeadline          = 10 * time.Second
	watchFrameRateCap           = 30
	defaultFrameRateCap         = 60

	mimeAV1 = "video/av01"
)

// Streamer owns one display's encoding pipeline and its goroutine.
type Streamer struct {
	displayID int32
	primary   bool
	isWatch   bool

	displays accessor.DisplayManager
	window   accessor.WindowManager
	surfaces accessor.SurfaceControl
	codecs   accessor.CodecProvider
	writer   FrameWriter
	mimeType string
	fatalFn  func(error)

	mu                 sync.Mutex
	displayInfo        accessor.DisplayInfo
	maxVideoResolution config.Size
	videoOrientation   Orientation
	emittedOrientation int32
	bitRate            int32
	// pendingBitRateReduced survives a codec-session restart so the first
	// packet of the recovery session carries the reduced-bit-rate flag.
	pendingBitRateReduced bool
	everReducedBitRate    bool
	started               bool

	handle *concurrent.CodecHandle // current codec session's stop gate

	frameNumber int64 // persists across codec-session restarts

	stopped chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Deps bundles the accessor facade a Streamer needs. Fatal, when non-nil,
// receives unrecoverable errors so the process owner can tear the whole
// session down; the streamer goroutine itself never exits the process.
type Deps struct {
	Displays accessor.DisplayManager
	Window   accessor.WindowManager
	Surfaces accessor.SurfaceControl
	Codecs   accessor.CodecProvider
	Writer   FrameWriter
	MimeType string
	Fatal    func(error)
}

// New creates a streamer for displayID. Primary streamers (the device's
// main display) live for the process; others are created on demand when
// a start-video-stream message names them.
func New(displayID int32, primary, isWatch bool, initialBitRate int32, deps Deps) *Streamer {
	return &Streamer{
		displayID:        displayID,
		primary:          primary,
		isWatch:          isWatch,
		displays:         deps.Displays,
		window:           deps.Window,
		surfaces:         deps.Surfaces,
		codecs:           deps.Codecs,
		writer:           deps.Writer,
		mimeType:         deps.MimeType,
		fatalFn:          deps.Fatal,
		videoOrientation: CurrentDisplay,
		bitRate:          initialBitRate,
		stopped:          make(chan struct{}),
		done:             make(chan struct{}),
	}
}

// GetDisplayInfo returns the last published DisplayInfo.
func (s *Streamer) GetDisplayInfo() accessor.DisplayInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayInfo
}

// SetMaxVideoResolution updates the stored field and restarts the codec
// session only if the value actually changed.
func (s *Streamer) SetMaxVideoResolution(size config.Size) {
	s.mu.Lock()
	changed := size != s.maxVideoResolution
	s.maxVideoResolution = size
	h := s.handle
	s.mu.Unlock()
	if changed && h != nil {
		h.Stop()
	}
}

// SetVideoOrientation updates the orientation and restarts the codec
// session if it changed and "follow display" is not active.
func (s *Streamer) SetVideoOrientation(o Orientation) {
	s.mu.Lock()
	changed := o != s.videoOrientation
	s.videoOrientation = o
	following := s.videoOrientation.isFollowDisplay()
	h := s.handle
	s.mu.Unlock()
	if changed && !following && h != nil {
		h.Stop()
	}
}

// OnDisplayAdded and OnDisplayRemoved complete the display-listener
// registration Start performs. Removal of this streamer's own display
// ends the current codec session; the outer loop then observes the
// now-invalid display info and exits.
func (s *Streamer) OnDisplayAdded(id int32) {}

func (s *Streamer) OnDisplayRemoved(id int32) {
	if id != s.displayID {
		return
	}
	if h := s.currentHandle(); h != nil {
		h.Stop()
	}
}

// OnDisplayChanged restarts the codec session on a framework display
// reconfiguration of this streamer's display.
func (s *Streamer) OnDisplayChanged(id int32) {
	if id != s.displayID {
		return
	}
	if h := s.currentHandle(); h != nil {
		h.Stop()
	}
}

// OnRotationChanged is the rotation-watcher hook: restart only if the
// rotation actually differs from the last published one.
func (s *Streamer) OnRotationChanged(rotation int32) {
	s.mu.Lock()
	changed := s.displayInfo.Rotation != rotation
	h := s.handle
	s.mu.Unlock()
	if changed && h != nil {
		h.Stop()
	}
}

// Refresh forces the current codec session to restart so the outer loop
// re-reads display info and re-derives video orientation on its next
// pass, without changing any stored setting. Unlike OnRotationChanged it
// is unconditional: a pointer-up may have launched an app that changed
// the display state without a rotation event.
func (s *Streamer) Refresh() {
	if h := s.currentHandle(); h != nil {
		h.Stop()
	}
}

// Start registers the streamer for display and rotation callbacks and
// launches its dedicated goroutine.
func (s *Streamer) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	if s.displays != nil {
		s.displays.AddListener(s)
	}
	if s.window != nil {
		s.window.WatchRotation(s.displayID, s)
	}
	go s.outerLoop()
}

// Stop requests a permanent shutdown and, if the goroutine was launched,
// blocks until it has exited. Must not be called from the streamer's own
// goroutine. Idempotent and safe from any other goroutine.
func (s *Streamer) Stop() {
	s.once.Do(func() {
		close(s.stopped)
		if h := s.currentHandle(); h != nil {
			h.Stop()
		}
	})
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return
	}
	<-s.done
	if s.window != nil {
		s.window.RemoveRotationWatcher(s.displayID, s)
	}
	if s.displays != nil {
		s.displays.RemoveListener(s)
	}
}

func (s *Streamer) currentHandle() *concurrent.CodecHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *Streamer) wantsStop() bool {
	select {
	case <-s.stopped:
		return true
	default:
		return false
	}
}

// reportFatal logs the error and forwards it to the process owner; the
// streamer goroutine exits its loop but never the process.
func (s *Streamer) reportFatal(err error) {
	logging.Fatalf("streamer[%d]: %v", s.displayID, err)
	if s.fatalFn != nil {
		s.fatalFn(err)
	}
}

// outerLoop re-acquires display info and an encoder, runs one codec
// session, and repeats until shut down, the display disappears, or an
// unrecoverable error occurs.
func (s *Streamer) outerLoop() {
	defer close(s.done)
	for {
		if s.wantsStop() {
			return
		}

		info, err := s.displays.GetDisplayInfo(s.displayID)
		if err != nil || !info.IsValid() {
			logging.Infof("streamer[%d]: display invalid, exiting outer loop: %v", s.displayID, err)
			return
		}

		codecInfo, err := s.codecs.FindEncoder(s.mimeType)
		if err != nil {
			s.reportFatal(fatal.Wrap(fatal.NoEncoder, err))
			return
		}
		codec, err := s.codecs.Acquire(codecInfo)
		if err != nil {
			s.reportFatal(fatal.Wrap(fatal.EncoderInit, err))
			return
		}

		err = s.runCodecSession(info, codecInfo, codec)
		codec.Release()
		if err != nil {
			if errors.Is(err, errPeerGone) {
				return
			}
			if fe, ok := fatal.As(err); ok {
				s.reportFatal(fe)
				return
			}
			logging.Infof("streamer[%d]: codec session ended, restarting: %v", s.displayID, err)
		}

		if s.wantsStop() {
			return
		}
	}
}

var (
	_ accessor.DisplayListener = (*Streamer)(nil)
	_ accessor.RotationWatcher = (*Streamer)(nil)
)
