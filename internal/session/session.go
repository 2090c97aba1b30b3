package session

import (
	"sync"
	"time"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/fatal"
	"github.com/screenshare/agent/internal/wire"
)

const videoWriteDeadline = 10 * time.Second

// netCloser is the subset of net.Conn Session needs to tear down a
// channel; keeping it local avoids importing "net" into this file's
// public surface beyond what dialSocket already returns.
type netCloser interface{ Close() error }

// Channel markers written immediately on each socket's writer side
// so the peer can identify streams without an
// out-of-band negotiation.
const (
	markerVideo   byte = 'V'
	markerAudio   byte = 'A'
	markerControl byte = 'C'
)

// codecNameHeaderSize is the video channel's fixed-width, space-padded
// codec short-name header.
const codecNameHeaderSize = 20

// Session is the three bootstrapped channels of one agent run. Every
// display streamer funnels frames through the one VideoWriter, which
// serializes access to the shared video socket.
type Session struct {
	ControlReader *wire.Reader
	ControlWriter *wire.Writer

	Video *VideoWriter
	Audio *wire.Writer

	CodecInfo accessor.CodecInfo

	videoConn, audioConn, controlConn netCloser
}

// Close tears down all three channels. Safe to call more than once.
func (s *Session) Close() {
	if s.videoConn != nil {
		s.videoConn.Close()
	}
	if s.audioConn != nil {
		s.audioConn.Close()
	}
	if s.controlConn != nil {
		s.controlConn.Close()
	}
}

// Bootstrap opens the three channel sockets in order (video, audio,
// control) against cfg.Socket, writes each channel's marker, and — for
// video — the codec name header. Encoder selection happens first:
// absence of a matching encoder is fatal before any socket work.
func Bootstrap(cfg config.Config, codecs accessor.CodecProvider) (*Session, error) {
	codecInfo, err := codecs.FindEncoder(cfg.Codec)
	if err != nil {
		return nil, fatal.Wrap(fatal.NoEncoder, err)
	}

	videoConn, err := dialSocket(cfg.Socket)
	if err != nil {
		return nil, fatal.Wrap(fatal.SocketConnect, err)
	}
	videoWriter := wire.NewWriter(videoConn)
	if err := writeMarker(videoWriter, markerVideo); err != nil {
		videoConn.Close()
		return nil, fatal.Wrap(fatal.SocketConnect, err)
	}
	if err := writeCodecName(videoWriter, cfg.Codec); err != nil {
		videoConn.Close()
		return nil, fatal.Wrap(fatal.SocketConnect, err)
	}
	if err := videoWriter.Flush(0); err != nil {
		videoConn.Close()
		return nil, fatal.Wrap(fatal.SocketConnect, err)
	}

	audioConn, err := dialSocket(cfg.Socket)
	if err != nil {
		videoConn.Close()
		return nil, fatal.Wrap(fatal.SocketConnect, err)
	}
	audioWriter := wire.NewWriter(audioConn)
	if err := writeMarker(audioWriter, markerAudio); err != nil {
		videoConn.Close()
		audioConn.Close()
		return nil, fatal.Wrap(fatal.SocketConnect, err)
	}
	if err := audioWriter.Flush(0); err != nil {
		videoConn.Close()
		audioConn.Close()
		return nil, fatal.Wrap(fatal.SocketConnect, err)
	}

	controlConn, err := dialSocket(cfg.Socket)
	if err != nil {
		videoConn.Close()
		audioConn.Close()
		return nil, fatal.Wrap(fatal.SocketConnect, err)
	}
	controlWriter := wire.NewWriter(controlConn)
	if err := writeMarker(controlWriter, markerControl); err != nil {
		videoConn.Close()
		audioConn.Close()
		controlConn.Close()
		return nil, fatal.Wrap(fatal.SocketConnect, err)
	}
	if err := controlWriter.Flush(0); err != nil {
		videoConn.Close()
		audioConn.Close()
		controlConn.Close()
		return nil, fatal.Wrap(fatal.SocketConnect, err)
	}

	return &Session{
		ControlReader: wire.NewReader(controlConn),
		ControlWriter: controlWriter,
		Video:         &VideoWriter{w: videoWriter},
		Audio:         audioWriter,
		CodecInfo:     codecInfo,
		videoConn:     videoConn,
		audioConn:     audioConn,
		controlConn:   controlConn,
	}, nil
}

func writeMarker(w *wire.Writer, marker byte) error {
	_, err := w.Write([]byte{marker})
	return err
}

// writeCodecName pads name to codecNameHeaderSize bytes with trailing
// spaces.
func writeCodecName(w *wire.Writer, name string) error {
	buf := make([]byte, codecNameHeaderSize)
	copy(buf, name)
	for i := len(name); i < codecNameHeaderSize; i++ {
		buf[i] = ' '
	}
	_, err := w.Write(buf)
	return err
}

// VideoWriter implements internal/streamer.FrameWriter over the shared
// video socket: all streamers share the single file descriptor, so
// header+payload pairs are serialized here.
type VideoWriter struct {
	mu sync.Mutex
	w  *wire.Writer
}

func (v *VideoWriter) WriteFrame(header *wire.VideoPacketHeader, payload []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.w.WriteVectored(videoWriteDeadline, header.Marshal(), payload)
}
