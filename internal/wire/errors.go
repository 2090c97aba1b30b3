package wire

import (
	"errors"
	"io"
	"net"

	pkgerrors "github.com/pkg/errors"
)

// ErrMalformed is returned when a varint exceeds its type width, a bool
// is not 0/1, or a length field is negative.
var ErrMalformed = errors.New("wire: malformed format")

// ErrTimeout is the soft per-read/per-flush deadline event the controller
// loop uses as a tick.
var ErrTimeout = errors.New("wire: timeout")

// classify sorts a raw I/O error into the reader/writer taxonomy: io.EOF is
// passed through unchanged (EndOfFile), net timeouts become ErrTimeout,
// anything else is wrapped as a generic IoError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return pkgerrors.Wrap(err, "wire: io error")
}
