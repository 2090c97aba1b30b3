package streamer

import (
	"errors"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/concurrent"
	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/fatal"
	"github.com/screenshare/agent/internal/logging"
	"github.com/screenshare/agent/internal/wire"
)

// frameLoop dequeues encoder output and writes each packet to the shared
// video channel with a fixed header. It runs until the codec handle is
// stopped (restart requested), the peer disappears, or repeated dequeue
// failures make the session unrecoverable. bitRateReduced marks the first
// emitted packet of a session that follows a forced bit-rate reduction.
func (s *Streamer) frameLoop(codec accessor.Codec, handle *concurrent.CodecHandle, naturalSize config.Size, emittedOrientation, correction, bitRate int32, bitRateReduced bool) error {
	consecutiveErrors := 0
	firstFrame := true
	var ptsOffset int64 // captured from the first real frame's presentation time

	for {
		buf, err := codec.Dequeue()
		if err != nil {
			if errors.Is(err, accessor.ErrStopped) {
				return nil // handle.Stop() was called: restart requested
			}
			consecutiveErrors++
			logging.Warnf("streamer[%d]: dequeue error (%d/%d): %v", s.displayID, consecutiveErrors, maxConsecutiveDequeueErrors, err)
			if consecutiveErrors < maxConsecutiveDequeueErrors {
				continue
			}
			return s.reduceBitRateOrFail(bitRate, err)
		}
		consecutiveErrors = 0

		if buf.IsEndOfStream {
			logging.Infof("streamer[%d]: end of stream", s.displayID)
			return nil
		}

		if len(buf.Data) == 0 {
			continue
		}
		// some AV1 encoders emit non-bitstream side data, recognizable by
		// the high bit of the first byte; it must not reach the peer
		if s.mimeType == mimeAV1 && buf.Data[0]&0x80 != 0 {
			continue
		}

		if buf.IsConfig {
			if err := s.writePacket(buf.Data, emittedOrientation, correction, bitRate, naturalSize, 0, bitRateReduced); err != nil {
				return errPeerGone
			}
			continue
		}

		if firstFrame {
			// ptsOffset = first_pts - 1, so the first frame's normalized
			// presentation timestamp is 1, never 0: 0 is reserved for
			// config packets, and this keeps every non-config timestamp
			// strictly positive and monotonic within the session.
			ptsOffset = buf.PresentationTimeUs - 1
			firstFrame = false
			// the first frame is re-requested as a sync frame; some
			// encoders otherwise produce a green-bar artifact at start
			codec.RequestSyncFrame()
		}

		pts := normalizePts(buf.PresentationTimeUs, ptsOffset)
		if err := s.writePacket(buf.Data, emittedOrientation, correction, bitRate, naturalSize, pts, bitRateReduced); err != nil {
			return errPeerGone
		}
		bitRateReduced = false

		if handle.State() == concurrent.Stopped {
			return nil
		}
	}
}

// reduceBitRateOrFail implements the weak-encoder recovery ladder: halve
// the bit rate to the nearest 1-2-5 value and restart the codec session,
// or give up when already at the floor.
func (s *Streamer) reduceBitRateOrFail(bitRate int32, cause error) error {
	reduced := nextBitRate(bitRate, config.MinBitRate)
	if reduced >= bitRate {
		s.mu.Lock()
		everReduced := s.everReducedBitRate
		s.mu.Unlock()
		if everReduced {
			return fatal.Wrap(fatal.WeakVideoEncoder, cause)
		}
		return fatal.Wrap(fatal.RepeatedEncoderErrors, cause)
	}
	logging.Warnf("streamer[%d]: reducing bit rate %d -> %d after repeated encoder errors", s.displayID, bitRate, reduced)
	s.mu.Lock()
	s.bitRate = reduced
	s.pendingBitRateReduced = true
	s.everReducedBitRate = true
	s.mu.Unlock()
	return nil // restart the outer loop with the reduced rate
}

// writePacket emits one header+payload pair. The header carries the
// display's natural size, not the encoded video size. pts == 0 marks a
// codec config packet, which never consumes a frame number; any other
// packet increments the per-display counter.
func (s *Streamer) writePacket(data []byte, emittedOrientation, correction, bitRate int32, naturalSize config.Size, pts int64, bitRateReduced bool) error {
	s.mu.Lock()
	if pts != 0 {
		s.frameNumber++
	}
	frameNumber := s.frameNumber
	s.mu.Unlock()

	flags := int32(0)
	if bitRateReduced {
		flags |= wire.HeaderFlagBitRateReduced
	}
	if s.GetDisplayInfo().Flags&accessor.DisplayFlagRound != 0 {
		flags |= wire.HeaderFlagRoundDisplay
	}

	header := &wire.VideoPacketHeader{
		DisplayID:             s.displayID,
		DisplayWidth:          naturalSize.W,
		DisplayHeight:         naturalSize.H,
		DisplayOrientation:    int16(emittedOrientation),
		OrientationCorrection: int16(correction),
		PacketSize:            int32(len(data)),
		FrameNumber:           frameNumber,
		OriginationTimestamp:  wire.NowMicros(),
		PresentationTimestamp: pts,
		Flags:                 flags,
		BitRate:               bitRate,
	}
	return s.writer.WriteFrame(header, data)
}

// normalizePts computes raw_pts - ptsOffset, clamped to stay positive if
// an encoder ever emits a non-monotonic raw timestamp.
func normalizePts(presentationTimeUs, ptsOffset int64) int64 {
	delta := presentationTimeUs - ptsOffset
	if delta <= 0 {
		return 1
	}
	return delta
}
