package loadgen

import (
	"bytes"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

func TestBuildRequestShape(t *testing.T) {
	req := BuildRequest([]byte{0, 0, 0})
	s := string(req)

	lines := strings.SplitN(s, "\r\n", 2)
	if lines[0] != "POST / HTTP/1.1" {
		t.Errorf("first line = %q, want %q", lines[0], "POST / HTTP/1.1")
	}

	wantBody := `{"data":[0,0,0]}`
	wantHeader := fmt.Sprintf("Content-Length: %d", len(wantBody))
	if !strings.Contains(s, wantHeader) {
		t.Errorf("request missing header %q:\n%s", wantHeader, s)
	}
	if !strings.HasSuffix(s, "\r\n\r\n"+wantBody) {
		t.Errorf("request does not end with %q:\n%s", wantBody, s)
	}
}

func TestBuildEmptyRequest(t *testing.T) {
	req := BuildEmptyRequest()
	if !strings.Contains(string(req), "Content-Length: 0") {
		t.Errorf("empty request missing Content-Length: 0:\n%s", req)
	}
	if !strings.HasSuffix(string(req), "\r\n\r\n") {
		t.Errorf("empty request should end immediately after headers")
	}
}

func TestSendRequestRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		conn.Read(buf)
		conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"))
	}()

	samples, err := SendRequest(ln.Addr().String(), BuildEmptyRequest(), 1, time.Second)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
}

func TestSendRequestClosedByServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close()
	}()

	_, err = SendRequest(ln.Addr().String(), BuildEmptyRequest(), 1, time.Second)
	if err == nil {
		t.Fatal("expected error when server closes without responding")
	}
}

func TestMarshalDataBodyMatchesManualJSON(t *testing.T) {
	got := marshalDataBody([]byte{1, 2, 3})
	want := []byte(`{"data":[1,2,3]}`)
	if !bytes.Equal(got, want) {
		t.Errorf("marshalDataBody = %s, want %s", got, want)
	}
}
