package wire

import (
	"bytes"
	"io"
	"testing"
)

// TestVarintRoundTrip checks the round-trip property: for every integer
// x in the type's range, read(write(x)) == x.
func TestVarintRoundTrip(t *testing.T) {
	i32s := []int32{0, 1, -1, 127, 128, -128, 1 << 20, -(1 << 20), 1<<31 - 1, -(1 << 31)}
	for _, v := range i32s {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := w.WriteI32(v); err != nil {
			t.Fatalf("WriteI32(%d): %v", v, err)
		}
		if err := w.Flush(0); err != nil {
			t.Fatalf("Flush: %v", err)
		}
		r := NewReader(&buf)
		got, err := r.ReadI32()
		if err != nil {
			t.Fatalf("ReadI32: %v", err)
		}
		if got != v {
			t.Errorf("round trip: wrote %d, got %d", v, got)
		}
	}

	i64s := []int64{0, 1, -1, 1 << 40, -(1 << 40)}
	for _, v := range i64s {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		w.WriteI64(v)
		w.Flush(0)
		r := NewReader(&buf)
		got, err := r.ReadI64()
		if err != nil {
			t.Fatalf("ReadI64: %v", err)
		}
		if got != v {
			t.Errorf("round trip: wrote %d, got %d", v, got)
		}
	}

	u64s := []uint64{0, 1, 1 << 63, ^uint64(0)}
	for _, v := range u64s {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		w.WriteU64(v)
		w.Flush(0)
		r := NewReader(&buf)
		got, err := r.ReadU64()
		if err != nil {
			t.Fatalf("ReadU64: %v", err)
		}
		if got != v {
			t.Errorf("round trip: wrote %d, got %d", v, got)
		}
	}
}

func TestBoolRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		w.WriteBool(v)
		w.Flush(0)
		r := NewReader(&buf)
		got, err := r.ReadBool()
		if err != nil || got != v {
			t.Errorf("bool round trip %v: got %v, err %v", v, got, err)
		}
	}
}

func TestReadBoolRejectsNonCanonical(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x02}))
	if _, err := r.ReadBool(); err != ErrMalformed {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}

func TestReadBytesNegativeLengthMalformed(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteI32(-1)
	w.Flush(0)
	r := NewReader(&buf)
	if _, err := r.ReadBytes(); err != ErrMalformed {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}

func TestUTF16StringRoundTrip(t *testing.T) {
	cases := []struct {
		s  string
		ok bool
	}{
		{"", false},
		{"", true},
		{"hello", true},
		{"héllo wörld 世界", true},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := w.WriteUTF16String(c.s, c.ok); err != nil {
			t.Fatalf("write: %v", err)
		}
		w.Flush(0)
		r := NewReader(&buf)
		gotS, gotOK, err := r.ReadUTF16String()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if gotOK != c.ok || (c.ok && gotS != c.s) {
			t.Errorf("case %+v: got s=%q ok=%v", c, gotS, gotOK)
		}
	}
}

func TestVarintOverlongIsMalformed(t *testing.T) {
	// 6 bytes, all continuation-flagged: exceeds the 5-byte width for u32.
	overlong := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	r := NewReader(bytes.NewReader(overlong))
	if _, err := r.ReadU32(); err != ErrMalformed {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}

func TestVarintValueExceedingWidthIsMalformed(t *testing.T) {
	// two groups decoding to 511, beyond the u8 range
	r := NewReader(bytes.NewReader([]byte{0xff, 0x03}))
	if _, err := r.ReadU8(); err != ErrMalformed {
		t.Fatalf("want ErrMalformed for an out-of-range u8, got %v", err)
	}
	// a tenth group carrying more than the one remaining u64 bit
	r = NewReader(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x7f}))
	if _, err := r.ReadU64(); err != ErrMalformed {
		t.Fatalf("want ErrMalformed for an overflowing u64, got %v", err)
	}
	// the widest in-range u8 still decodes
	r = NewReader(bytes.NewReader([]byte{0xff, 0x01}))
	v, err := r.ReadU8()
	if err != nil || v != 255 {
		t.Fatalf("ReadU8(255) = %d, %v", v, err)
	}
}

func TestReadEOFMidMessage(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x80})) // continuation bit set, no more bytes
	if _, err := r.ReadU32(); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := &VideoPacketHeader{
		DisplayID:             0,
		DisplayWidth:          1080,
		DisplayHeight:         2400,
		DisplayOrientation:    1,
		OrientationCorrection: 3,
		PacketSize:            4096,
		FrameNumber:           42,
		OriginationTimestamp:  123456789,
		PresentationTimestamp: 987654321,
		Flags:                 HeaderFlagRoundDisplay | HeaderFlagBitRateReduced,
		BitRate:               8_000_000,
	}
	buf := h.Marshal()
	if len(buf) != HeaderSize {
		t.Fatalf("marshal length = %d, want %d", len(buf), HeaderSize)
	}
	got, err := UnmarshalHeader(buf)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if *got != *h {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestHeaderConfigPacket(t *testing.T) {
	h := &VideoPacketHeader{PresentationTimestamp: 0}
	if !h.IsConfigPacket() {
		t.Error("PresentationTimestamp=0 should be a config packet")
	}
	h.PresentationTimestamp = 1
	if h.IsConfigPacket() {
		t.Error("PresentationTimestamp=1 should not be a config packet")
	}
}
