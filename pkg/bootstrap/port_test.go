package bootstrap

import (
	"net"
	"testing"
)

func TestPortBound(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to bind a test listener: %v", err)
	}
	defer listener.Close()
	port := uint16(listener.Addr().(*net.TCPAddr).Port)

	if !PortBound(port) {
		t.Errorf("port %d has an active listener and must report bound", port)
	}

	listener.Close()
	if PortBound(port) {
		t.Errorf("port %d was released and must report free", port)
	}
}

func TestPortBoundProbeIsTransient(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to bind a test listener: %v", err)
	}
	port := uint16(listener.Addr().(*net.TCPAddr).Port)
	listener.Close()

	// The probe must not leave a listener behind: probing twice in a row
	// yields the same answer.
	if PortBound(port) || PortBound(port) {
		t.Errorf("probe left port %d looking bound", port)
	}
}
