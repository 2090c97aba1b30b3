package agent

import (
	"testing"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/accessor/fake"
	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/session"
	"github.com/screenshare/agent/internal/streamer"
	"github.com/screenshare/agent/internal/wire"
)

// nullWriter discards every frame; these tests only exercise Agent's
// streamer bookkeeping, never actual frame delivery.
type nullWriter struct{}

func (nullWriter) WriteFrame(*wire.VideoPacketHeader, []byte) error { return nil }

// newTestStreamer builds a real streamer.Streamer over fakes, matching
// internal/streamer's own test harness, so Agent's bookkeeping methods
// are exercised against the real type they hold in a.streamers.
func newTestStreamer(t *testing.T, displayID int32, primary bool, displays *fake.DisplayManager) *streamer.Streamer {
	t.Helper()
	displays.SetInfo(displayID, accessor.DisplayInfo{
		LogicalWidth: 1080, LogicalHeight: 1920, DensityDPI: 420,
		Rotation: 0, PowerState: accessor.PowerOn,
	})
	provider := &fake.CodecProvider{Info: accessor.CodecInfo{
		MimeType: "video/avc", Name: "test.encoder",
		MaxWidth: 1920, MaxHeight: 1920, AlignmentWidth: 16, AlignmentHeight: 16,
		MaxFrameRate: 60,
	}}
	return streamer.New(displayID, primary, false, config.DefaultMaxBitRate, streamer.Deps{
		Displays: displays,
		Surfaces: fake.NewSurfaceControl(),
		Codecs:   provider,
		Writer:   nullWriter{},
		MimeType: "video/avc",
	})
}

func newTestAgent(t *testing.T) (*Agent, *fake.DisplayManager) {
	t.Helper()
	displays := fake.NewDisplayManager()
	a := &Agent{
		cfg:       config.Config{MaxBitRate: config.DefaultMaxBitRate, Codec: "h264"},
		deps:      Deps{Displays: displays, Surfaces: fake.NewSurfaceControl(), Codecs: &fake.CodecProvider{}},
		sess:      &session.Session{Video: &session.VideoWriter{}},
		streamers: map[int32]*streamer.Streamer{},
	}
	return a, displays
}

func TestSetDeviceOrientationFansOutToAllStreamers(t *testing.T) {
	a, displays := newTestAgent(t)
	s0 := newTestStreamer(t, 0, true, displays)
	s1 := newTestStreamer(t, 1, false, displays)
	a.streamers[0] = s0
	a.streamers[1] = s1

	// SetVideoOrientation only triggers a restart when a codec session is
	// active; here we only assert the fan-out itself does not error,
	// across every registered streamer, primary and non-primary alike.
	if err := a.SetDeviceOrientation(int32(streamer.Orientation2)); err != nil {
		t.Fatalf("SetDeviceOrientation: %v", err)
	}
}

func TestStartVideoStreamCreatesOnce(t *testing.T) {
	a, displays := newTestAgent(t)
	displays.SetInfo(2, accessor.DisplayInfo{LogicalWidth: 800, LogicalHeight: 600, PowerState: accessor.PowerOn})
	a.deps.Codecs = &fake.CodecProvider{Info: accessor.CodecInfo{MimeType: "video/avc", Name: "enc", AlignmentWidth: 16, AlignmentHeight: 16}}

	if err := a.StartVideoStream(1, 2, config.Size{}); err != nil {
		t.Fatalf("StartVideoStream: %v", err)
	}
	if _, ok := a.getStreamer(2); !ok {
		t.Fatalf("expected streamer for display 2 to be registered")
	}
	first := a.streamers[2]

	if err := a.StartVideoStream(2, 2, config.Size{}); err != nil {
		t.Fatalf("StartVideoStream (repeat): %v", err)
	}
	if a.streamers[2] != first {
		t.Fatalf("expected repeat StartVideoStream to be a no-op, got a new streamer instance")
	}
	first.Stop()
}

func TestStopVideoStreamIgnoresPrimaryDisplay(t *testing.T) {
	a, displays := newTestAgent(t)
	s0 := newTestStreamer(t, primaryDisplayID, true, displays)
	a.streamers[primaryDisplayID] = s0

	if err := a.StopVideoStream(primaryDisplayID); err != nil {
		t.Fatalf("StopVideoStream: %v", err)
	}
	if _, ok := a.streamers[primaryDisplayID]; !ok {
		t.Fatalf("expected primary display's streamer to survive StopVideoStream")
	}
}

func TestStopVideoStreamRemovesNonPrimaryDisplay(t *testing.T) {
	a, displays := newTestAgent(t)
	s1 := newTestStreamer(t, 1, false, displays)
	a.streamers[1] = s1

	if err := a.StopVideoStream(1); err != nil {
		t.Fatalf("StopVideoStream: %v", err)
	}
	if _, ok := a.streamers[1]; ok {
		t.Fatalf("expected display 1's streamer to be removed")
	}
}

func TestSetMaxVideoResolutionUnknownDisplayErrors(t *testing.T) {
	a, _ := newTestAgent(t)
	if err := a.SetMaxVideoResolution(9, config.Size{W: 100, H: 100}); err == nil {
		t.Fatalf("expected error for unregistered display")
	}
}

func TestRefreshVideoOrientationByDisplayRotationUsesCurrentRotation(t *testing.T) {
	a, displays := newTestAgent(t)
	displays.SetInfo(0, accessor.DisplayInfo{LogicalWidth: 1080, LogicalHeight: 1920, Rotation: 1, PowerState: accessor.PowerOn})
	s0 := newTestStreamer(t, 0, true, displays)
	a.streamers[0] = s0

	if err := a.RefreshVideoOrientation(0, true); err != nil {
		t.Fatalf("RefreshVideoOrientation: %v", err)
	}
}

func TestRefreshVideoOrientationUnknownDisplayIsNoop(t *testing.T) {
	a, _ := newTestAgent(t)
	if err := a.RefreshVideoOrientation(42, false); err != nil {
		t.Fatalf("expected no-op for unregistered display, got %v", err)
	}
}
