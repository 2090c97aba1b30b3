//go:build !linux

package session

import (
	"net"
	"runtime"

	"github.com/pkg/errors"
)

// dialSocket has no non-Linux implementation: the abstract local-domain
// namespace --socket relies on is a Linux kernel feature.
func dialSocket(name string) (net.Conn, error) {
	return nil, errors.Errorf("session: abstract sockets are not supported on %s", runtime.GOOS)
}
