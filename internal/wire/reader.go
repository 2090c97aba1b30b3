package wire

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"net"
	"time"
)

// Reader decodes the LEB128-style varint framing off of one channel's
// read half.
type Reader struct {
	r    *bufio.Reader
	conn net.Conn // nil if the underlying stream doesn't support deadlines
}

// NewReader wraps conn's read side. conn may be any io.Reader; if it also
// implements net.Conn, SetReadTimeout becomes effective.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{r: bufio.NewReader(r)}
	if c, ok := r.(net.Conn); ok {
		rd.conn = c
	}
	return rd
}

// SetReadTimeout arms (or disarms, with 0) the deadline for the next read.
// A Timeout error from the following Read* call is the controller's
// 250ms tick.
func (r *Reader) SetReadTimeout(d time.Duration) error {
	if r.conn == nil {
		return nil
	}
	if d <= 0 {
		return r.conn.SetReadDeadline(time.Time{})
	}
	return r.conn.SetReadDeadline(time.Now().Add(d))
}

// Close half-shuts the read side only, leaving the write side — owned by
// a different Writer over the same channel's socket — usable. A conn
// that is not a *net.UnixConn is closed outright.
func (r *Reader) Close() error {
	if uc, ok := r.conn.(*net.UnixConn); ok {
		return uc.CloseRead()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func (r *Reader) readByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, classify(err)
	}
	return b, nil
}

// readVarint reads an unsigned LEB128 value of at most bits significant
// bits, failing with ErrMalformed when the encoding needs more groups than
// the width allows or a group carries bits beyond the width.
func (r *Reader) readVarint(bits uint) (uint64, error) {
	maxBytes := int((bits + 6) / 7)
	var result uint64
	for i := 0; i < maxBytes; i++ {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		group := uint64(b & 0x7f)
		shift := 7 * uint(i)
		if group>>(bits-shift) != 0 {
			return 0, ErrMalformed
		}
		result |= group << shift
		if b&0x80 == 0 {
			return result, nil
		}
	}
	return 0, ErrMalformed
}

func (r *Reader) ReadU8() (uint8, error) {
	v, err := r.readVarint(8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

func (r *Reader) ReadU16() (uint16, error) {
	v, err := r.readVarint(16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	v, err := r.readVarint(32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	return r.readVarint(64)
}

// ReadI16/I32/I64 decode the raw two's-complement bit pattern: the value
// was written as the unsigned LEB128 of its bit pattern, so after
// truncating to the type's width the high bit is the sign bit, giving
// two's-complement sign extension for free.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadBool accepts only 0x00 or 0x01; anything else is
// ErrMalformed.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, ErrMalformed
	}
}

// ReadBytes reads a length-prefixed byte blob; a negative length is
// ErrMalformed.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ErrMalformed
	}
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, classify(err)
	}
	return buf, nil
}

// ReadUTF16String reads a length+1-prefixed sequence of UTF-16 code units
//: a stored length of 0 denotes null (ok=false), 1 denotes
// the empty string, and L denotes L-1 code units otherwise.
func (r *Reader) ReadUTF16String() (s string, ok bool, err error) {
	n, err := r.ReadI32()
	if err != nil {
		return "", false, err
	}
	if n < 0 {
		return "", false, ErrMalformed
	}
	if n == 0 {
		return "", false, nil
	}
	units := make([]uint16, n-1)
	for i := range units {
		u, err := r.ReadU16()
		if err != nil {
			return "", false, err
		}
		units[i] = u
	}
	return utf16ToString(units), true, nil
}

// ReadFixed32 reads a little-endian fixed-width uint32, the non-varint
// path used by VideoPacketHeader fields.
func (r *Reader) ReadFixed32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return 0, classify(err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadF32 reads a little-endian IEEE-754 float32.
func (r *Reader) ReadF32() (float32, error) {
	bits, err := r.ReadFixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadMessageType reads the leading varint type id of a ControlMessage;
// it is the one read the controller issues under the 250ms soft timeout,
// so Timeout from here is expected and non-fatal.
func (r *Reader) ReadMessageType() (uint32, error) {
	return r.ReadU32()
}
