package session

import (
	"bytes"
	"testing"

	"github.com/screenshare/agent/internal/wire"
)

func TestWriteCodecNamePadsToFixedWidth(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := writeCodecName(w, "vp8"); err != nil {
		t.Fatalf("writeCodecName: %v", err)
	}
	if err := w.Flush(0); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if buf.Len() != codecNameHeaderSize {
		t.Fatalf("expected %d-byte header, got %d", codecNameHeaderSize, buf.Len())
	}
	if buf.String() != "vp8                 " {
		t.Fatalf("unexpected padded codec name: %q", buf.String())
	}
}

func TestWriteCodecNameTruncatesNothingShorterThanWidth(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := writeCodecName(w, "hevc"); err != nil {
		t.Fatalf("writeCodecName: %v", err)
	}
	w.Flush(0)
	if got := buf.String()[:4]; got != "hevc" {
		t.Fatalf("expected codec name preserved, got %q", got)
	}
}

func TestWriteMarker(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := writeMarker(w, markerVideo); err != nil {
		t.Fatalf("writeMarker: %v", err)
	}
	w.Flush(0)
	if buf.String() != "V" {
		t.Fatalf("expected marker byte 'V', got %q", buf.String())
	}
}

func TestVideoWriterWriteFrameOrdersHeaderThenPayload(t *testing.T) {
	var buf bytes.Buffer
	vw := &VideoWriter{w: wire.NewWriter(&buf)}
	header := &wire.VideoPacketHeader{DisplayID: 1, PacketSize: 3}
	if err := vw.WriteFrame(header, []byte("abc")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	want := append(header.Marshal(), []byte("abc")...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("expected header bytes followed by payload, got %d bytes want %d", buf.Len(), len(want))
	}
}
