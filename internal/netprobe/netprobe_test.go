package netprobe

import (
	"net"
	"testing"
)

func TestWaitForPortFastPath(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	if !WaitForPort("127.0.0.1", uint16(addr.Port)) {
		t.Fatal("expected WaitForPort to succeed against a bound listener")
	}
}

func TestWaitForPortTimesOut(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	if WaitForPort("127.0.0.1", uint16(addr.Port)) {
		t.Fatal("expected WaitForPort to fail against a closed port")
	}
}
