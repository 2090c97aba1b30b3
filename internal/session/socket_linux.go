//go:build linux

// Package session bootstraps one agent run's channels: it opens the three
// sockets against the peer's abstract address and writes each channel's
// leading marker, with the platform-specific dial path split out by build
// tag.
package session

import "net"

// dialSocket connects to name in the Linux abstract local-domain
// namespace. Prefixing with "@" is net's documented convention for
// NUL-prefixed abstract socket names.
func dialSocket(name string) (net.Conn, error) {
	return net.Dial("unix", "@"+name)
}
