package wire

import "encoding/binary"

// littleEndianWriter/Reader are small helpers for VideoPacketHeader's
// fixed-width (non-varint) field layout.

type littleEndianWriter struct {
	buf []byte
	off int
}

func newLittleEndianWriter(buf []byte) *littleEndianWriter {
	return &littleEndianWriter{buf: buf}
}

func (w *littleEndianWriter) putI16(v int16) {
	binary.LittleEndian.PutUint16(w.buf[w.off:], uint16(v))
	w.off += 2
}

func (w *littleEndianWriter) putI32(v int32) {
	binary.LittleEndian.PutUint32(w.buf[w.off:], uint32(v))
	w.off += 4
}

func (w *littleEndianWriter) putI64(v int64) {
	binary.LittleEndian.PutUint64(w.buf[w.off:], uint64(v))
	w.off += 8
}

type littleEndianReader struct {
	buf []byte
	off int
}

func newLittleEndianReader(buf []byte) *littleEndianReader {
	return &littleEndianReader{buf: buf}
}

func (r *littleEndianReader) i16() int16 {
	v := int16(binary.LittleEndian.Uint16(r.buf[r.off:]))
	r.off += 2
	return v
}

func (r *littleEndianReader) i32() int32 {
	v := int32(binary.LittleEndian.Uint32(r.buf[r.off:]))
	r.off += 4
	return v
}

func (r *littleEndianReader) i64() int64 {
	v := int64(binary.LittleEndian.Uint64(r.buf[r.off:]))
	r.off += 8
	return v
}
