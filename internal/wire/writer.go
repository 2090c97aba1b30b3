package wire

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"net"
	"time"
)

// Writer encodes the LEB128-style varint framing onto one channel's
// write half. It buffers internally; Flush writes
// the buffer to the socket with a bounded deadline.
type Writer struct {
	w    *bufio.Writer
	conn net.Conn
	raw  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	wr := &Writer{w: bufio.NewWriter(w), raw: w}
	if c, ok := w.(net.Conn); ok {
		wr.conn = c
	}
	return wr
}

func (w *Writer) writeVarint(v uint64) error {
	var buf [10]byte
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			break
		}
	}
	_, err := w.w.Write(buf[:n])
	if err != nil {
		return classify(err)
	}
	return nil
}

func (w *Writer) WriteU8(v uint8) error  { return w.writeVarint(uint64(v)) }
func (w *Writer) WriteU16(v uint16) error { return w.writeVarint(uint64(v)) }
func (w *Writer) WriteU32(v uint32) error { return w.writeVarint(uint64(v)) }
func (w *Writer) WriteU64(v uint64) error { return w.writeVarint(v) }

func (w *Writer) WriteI16(v int16) error { return w.WriteU16(uint16(v)) }
func (w *Writer) WriteI32(v int32) error { return w.WriteU32(uint32(v)) }
func (w *Writer) WriteI64(v int64) error { return w.WriteU64(uint64(v)) }

func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.writeVarint(1)
	}
	return w.writeVarint(0)
}

// WriteBytes writes a length-prefixed byte blob.
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.WriteI32(int32(len(b))); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	_, err := w.w.Write(b)
	return classify(err)
}

// WriteUTF16String writes the length+1-prefixed UTF-16 form ReadUTF16String
// decodes. ok=false writes the null encoding (length 0).
func (w *Writer) WriteUTF16String(s string, ok bool) error {
	if !ok {
		return w.WriteI32(0)
	}
	units := stringToUTF16(s)
	if err := w.WriteI32(int32(len(units) + 1)); err != nil {
		return err
	}
	for _, u := range units {
		if err := w.WriteU16(u); err != nil {
			return err
		}
	}
	return nil
}

// WriteFixed32 writes a little-endian fixed-width uint32, the non-varint
// path VideoPacketHeader fields use.
func (w *Writer) WriteFixed32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.w.Write(buf[:])
	return classify(err)
}

func (w *Writer) WriteF32(v float32) error {
	return w.WriteFixed32(math.Float32bits(v))
}

// Write writes a raw byte slice directly to the buffer, used for video
// payloads that follow a VideoPacketHeader.
func (w *Writer) Write(b []byte) (int, error) {
	n, err := w.w.Write(b)
	return n, classify(err)
}

// Flush drains the internal buffer to the socket, honoring deadline (zero
// means no deadline). On expiry it returns ErrTimeout and leaves the
// caller to decide whether to abort.
func (w *Writer) Flush(deadline time.Duration) error {
	if w.conn != nil {
		if deadline > 0 {
			if err := w.conn.SetWriteDeadline(time.Now().Add(deadline)); err != nil {
				return err
			}
			defer w.conn.SetWriteDeadline(time.Time{})
		}
	}
	return classify(w.w.Flush())
}

// WriteVectored gathers hdr and payload into one write when the
// underlying connection supports net.Buffers (scatter-gather), otherwise
// falls back to writing hdr then payload through the buffered path.
func (w *Writer) WriteVectored(deadline time.Duration, hdr, payload []byte) error {
	if w.w.Buffered() == 0 {
		if uc, ok := w.raw.(*net.UnixConn); ok {
			if deadline > 0 {
				uc.SetWriteDeadline(time.Now().Add(deadline))
				defer uc.SetWriteDeadline(time.Time{})
			}
			bufs := net.Buffers{hdr, payload}
			_, err := bufs.WriteTo(uc)
			return classify(err)
		}
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return w.Flush(deadline)
}
