package streamer

import (
	"errors"
	"strconv"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/concurrent"
	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/fatal"
	"github.com/screenshare/agent/internal/logging"
)

// errPeerGone signals the outer loop that the video socket went away and
// the streamer goroutine should exit entirely rather than restart.
var errPeerGone = errors.New("streamer: video channel closed")

// runCodecSession configures the codec, binds the encoder's input surface
// to a display projection, starts the codec session, and runs the frame
// loop until a restart trigger or error ends it. Exactly one CodecHandle
// is live for the session's duration, guarding the invariant that no
// other goroutine frees the codec out from under the frame loop. The
// caller releases the codec after this returns.
func (s *Streamer) runCodecSession(info accessor.DisplayInfo, codecInfo accessor.CodecInfo, codec accessor.Codec) error {
	s.mu.Lock()
	s.displayInfo = info
	requested := s.maxVideoResolution
	videoOrientation := s.videoOrientation
	if videoOrientation == CurrentVideo {
		// keep whatever orientation the previous session emitted
		videoOrientation = Orientation(s.emittedOrientation)
	}
	bitRate := s.bitRate
	pendingReduced := s.pendingBitRateReduced
	s.pendingBitRateReduced = false
	s.mu.Unlock()

	naturalW, naturalH := info.NaturalSize()
	naturalSize := config.Size{W: naturalW, H: naturalH}
	encoderMax := config.Size{W: codecInfo.MaxWidth, H: codecInfo.MaxHeight}
	videoSize := ComputeVideoSize(naturalSize, requested, encoderMax, codecInfo.AlignmentWidth, codecInfo.AlignmentHeight)

	emittedOrientation, correction := rotationCorrection(videoOrientation, info.Rotation, videoOrientation.isFollowDisplay())
	s.mu.Lock()
	s.emittedOrientation = emittedOrientation
	s.mu.Unlock()

	rate := bitRate
	if rate <= 0 {
		rate = config.DefaultMaxBitRate
	}
	cfg := accessor.EncoderConfig{
		ColorFormat:      accessor.ColorFormatOpaqueSurface,
		IFrameIntervalUs: iFrameInterval.Microseconds(),
		RepeatFrameAfter: repeatFrameAfter,
		BitRate:          rate,
		FrameRate:        frameRateCap(s.isWatch, codecInfo.MaxFrameRate),
	}
	if err := codec.Configure(cfg); err != nil {
		return fatal.Wrap(fatal.EncoderConfig, err)
	}

	surface, err := codec.CreateInputSurface()
	if err != nil {
		return fatal.Wrap(fatal.InputSurfaceCreate, err)
	}

	vdisplay, err := s.bindProjection(info, surface, videoSize, emittedOrientation)
	if err != nil {
		return err
	}
	if vdisplay != nil {
		defer s.surfaces.DestroyDisplay(vdisplay)
	}

	handle := concurrent.NewCodecHandle(func() {
		if e := codec.Stop(); e != nil {
			logging.Warnf("streamer[%d]: codec stop: %v", s.displayID, e)
		}
	})
	s.mu.Lock()
	s.handle = handle
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.handle = nil
		s.mu.Unlock()
	}()
	// ends the codec session on every exit path below, before the
	// deferred display teardown and the caller's codec release run
	defer handle.Stop()
	if s.wantsStop() {
		// a permanent Stop() arrived (or raced) before this session's
		// handle existed to receive it; apply it now so the frame loop
		// never blocks forever once started.
		handle.Stop()
	}

	if err := codec.Start(); err != nil {
		return fatal.Wrap(fatal.EncoderInit, err)
	}
	if !handle.MarkStarted() {
		// a stop arrived between creation and start; bail immediately and
		// let the outer loop decide whether to restart or exit.
		codec.Stop()
		return nil
	}

	logging.Infof("streamer[%d]: session started %dx%d rotation=%d correction=%d bitrate=%d",
		s.displayID, videoSize.W, videoSize.H, emittedOrientation, correction, rate)

	return s.frameLoop(codec, handle, naturalSize, emittedOrientation, correction, rate, pendingReduced)
}

// bindProjection routes the encoder's input surface onto the display,
// preferring a dedicated virtual display and falling back to projecting
// onto the built-in display's token through a surface-control transaction
// on platform versions without the virtual-display API.
func (s *Streamer) bindProjection(info accessor.DisplayInfo, surface accessor.Surface, videoSize config.Size, orientation int32) (accessor.VirtualDisplay, error) {
	if s.surfaces == nil {
		return nil, nil
	}
	vdisplay, err := s.surfaces.CreateDisplay(displayName(s.displayID), true)
	if err == nil {
		if err := vdisplay.Resize(videoSize.W, videoSize.H, info.DensityDPI); err != nil {
			s.surfaces.DestroyDisplay(vdisplay)
			return nil, fatal.Wrap(fatal.VirtualDisplayCreate, err)
		}
		if err := vdisplay.SetSurface(surface); err != nil {
			s.surfaces.DestroyDisplay(vdisplay)
			return nil, fatal.Wrap(fatal.VirtualDisplayCreate, err)
		}
		return vdisplay, nil
	}
	if !errors.Is(err, accessor.ErrUnsupported) {
		return nil, fatal.Wrap(fatal.VirtualDisplayCreate, err)
	}

	token, err := s.surfaces.GetInternalDisplayToken()
	if err != nil {
		return nil, fatal.Wrap(fatal.VirtualDisplayCreate, err)
	}
	naturalW, naturalH := info.NaturalSize()
	source := accessor.Rect{Right: naturalW, Bottom: naturalH}
	dest := accessor.Rect{Right: videoSize.W, Bottom: videoSize.H}
	if err := accessor.ConfigureProjection(s.surfaces, token, surface, info.LayerStackID, orientation, source, dest); err != nil {
		return nil, fatal.Wrap(fatal.VirtualDisplayCreate, err)
	}
	return nil, nil
}

func displayName(id int32) string {
	if id == 0 {
		return "screen-sharing-agent"
	}
	return "screen-sharing-agent-" + strconv.Itoa(int(id))
}

func frameRateCap(isWatch bool, codecMax int32) int32 {
	limit := int32(defaultFrameRateCap)
	if isWatch {
		limit = watchFrameRateCap
	}
	if codecMax > 0 && codecMax < limit {
		return codecMax
	}
	return limit
}
