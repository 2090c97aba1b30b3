package accessor

import (
	"errors"
	"time"
)

// ErrStopped is returned by Codec.Dequeue when the codec was stopped from
// another goroutine while the streamer goroutine was blocked dequeuing.
var ErrStopped = errors.New("accessor: codec stopped")

// ColorFormat values the codec accepts; the streamer always configures
// the opaque-surface format.
type ColorFormat int32

const ColorFormatOpaqueSurface ColorFormat = 1

// EncoderConfig is the configuration applied before starting a codec
// session.
type EncoderConfig struct {
	ColorFormat      ColorFormat
	IFrameIntervalUs int64 // 10s
	RepeatFrameAfter time.Duration
	BitRate          int32
	FrameRate        int32
}

// OutputBuffer is one dequeued encoder output.
type OutputBuffer struct {
	Data                  []byte
	PresentationTimeUs    int64
	IsConfig              bool
	IsEndOfStream         bool
}

// Codec is the accessor facade over one hardware encoder instance. The
// streamer goroutine is the only caller of Start/Dequeue/Release; any
// goroutine may call RequestStop.
type Codec interface {
	Configure(cfg EncoderConfig) error
	CreateInputSurface() (Surface, error)
	Start() error
	// Dequeue blocks with no timeout until an output buffer is available
	// or the codec is stopped from another goroutine, in which case it
	// returns ErrStopped.
	Dequeue() (OutputBuffer, error)
	RequestSyncFrame()
	Stop() error
	Release() error
}

// CodecProvider looks up and allocates encoders by name.
type CodecProvider interface {
	FindEncoder(mimeType string) (CodecInfo, error)
	Acquire(info CodecInfo) (Codec, error)
}
