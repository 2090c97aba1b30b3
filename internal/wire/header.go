package wire

import "time"

// Header flag bits.
const (
	HeaderFlagRoundDisplay  int32 = 1 << 0
	HeaderFlagBitRateReduced int32 = 1 << 1
)

// HeaderSize is the fixed on-wire byte length of VideoPacketHeader: six
// i32 fields, two i16 fields, three i64 fields — all little-endian
// fixed-width.
const HeaderSize = 4*6 + 2*2 + 8*3

// VideoPacketHeader is the fixed-layout header prefixed to every video
// payload. Unlike ControlMessage it is never varint-encoded:
// every field is little-endian fixed-width so consumers can index into a
// raw byte buffer without a parser.
type VideoPacketHeader struct {
	DisplayID             int32
	DisplayWidth          int32
	DisplayHeight         int32
	DisplayOrientation    int16
	OrientationCorrection int16
	PacketSize            int32
	FrameNumber           int64
	OriginationTimestamp  int64 // microseconds, wall clock at write time
	PresentationTimestamp int64 // microseconds; 0 => config packet
	Flags                 int32
	BitRate               int32
}

// IsConfigPacket reports whether this header describes a codec-config
// blob (SPS/PPS, codec-private data, sequence header) rather than a frame.
func (h *VideoPacketHeader) IsConfigPacket() bool {
	return h.PresentationTimestamp == 0
}

// Marshal encodes the header into the fixed little-endian layout.
func (h *VideoPacketHeader) Marshal() []byte {
	buf := make([]byte, HeaderSize)
	le := newLittleEndianWriter(buf)
	le.putI32(h.DisplayID)
	le.putI32(h.DisplayWidth)
	le.putI32(h.DisplayHeight)
	le.putI16(h.DisplayOrientation)
	le.putI16(h.OrientationCorrection)
	le.putI32(h.PacketSize)
	le.putI64(h.FrameNumber)
	le.putI64(h.OriginationTimestamp)
	le.putI64(h.PresentationTimestamp)
	le.putI32(h.Flags)
	le.putI32(h.BitRate)
	return buf
}

// Unmarshal decodes a header previously produced by Marshal.
func UnmarshalHeader(buf []byte) (*VideoPacketHeader, error) {
	if len(buf) < HeaderSize {
		return nil, ErrMalformed
	}
	le := newLittleEndianReader(buf)
	h := &VideoPacketHeader{}
	h.DisplayID = le.i32()
	h.DisplayWidth = le.i32()
	h.DisplayHeight = le.i32()
	h.DisplayOrientation = le.i16()
	h.OrientationCorrection = le.i16()
	h.PacketSize = le.i32()
	h.FrameNumber = le.i64()
	h.OriginationTimestamp = le.i64()
	h.PresentationTimestamp = le.i64()
	h.Flags = le.i32()
	h.BitRate = le.i32()
	return h, nil
}

// NowMicros is the wall-clock source for OriginationTimestamp.
func NowMicros() int64 { return time.Now().UnixMicro() }
