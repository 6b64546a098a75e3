package bootstrap

import (
	"errors"
	"net"
	"strconv"
	"syscall"
)

// PortBound reports whether something already listens on 127.0.0.1:port.
// The probe is strictly transient: bind, inspect the error, release. Only
// "address in use" counts as bound — any other bind failure means the port
// cannot be holding a reverse tunnel.
func PortBound(port uint16) bool {
	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(int(port))))
	if err == nil {
		listener.Close()
		return false
	}
	return errors.Is(err, syscall.EADDRINUSE)
}
