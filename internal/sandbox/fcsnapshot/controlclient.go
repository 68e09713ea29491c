package fcsnapshot

import (
	"bufio"
	"fmt"
	"net"
	"strings"
)

// loadSnapshotRequest builds the bit-for-bit PUT /snapshot/load message the
// control socket expects.
func loadSnapshotRequest(snapshotPath, memFilePath string) []byte {
	body := fmt.Sprintf(`{"snapshot_path":"%s","mem_file_path":"%s"}`, snapshotPath, memFilePath)
	return []byte(fmt.Sprintf(
		"PUT /snapshot/load HTTP/1.1\r\n"+
			"Host: localhost\r\n"+
			"Accept: application/json\r\n"+
			"Content-Type: application/json\r\n"+
			"Content-Length: %d\r\n\r\n%s",
		len(body), body,
	))
}

// resumeRequest builds the bit-for-bit PATCH /vm message that transitions
// the restored VM to Resumed.
func resumeRequest() []byte {
	body := `{"state":"Resumed"}`
	return []byte(fmt.Sprintf(
		"PATCH /vm HTTP/1.1\r\n"+
			"Accept: application/json\r\n"+
			"Content-Type: application/json\r\n"+
			"Content-Length:%d\r\n\r\n%s",
		len(body), body,
	))
}

// sendControlMessage writes msg over the control socket and reads up to
// 1024 bytes of response, reporting success iff the substring "204" occurs
// in it. This hand-rolled framing mirrors the bit-for-bit messages specified
// for the control channel rather than routing through net/http, since the
// response is verified by substring rather than parsed.
func sendControlMessage(socketPath string, msg []byte) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("dialing control socket: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write(msg); err != nil {
		return fmt.Errorf("writing control message: %w", err)
	}

	buf := make([]byte, 1024)
	reader := bufio.NewReader(conn)
	n, err := reader.Read(buf)
	if n == 0 && err != nil {
		return fmt.Errorf("reading control response: %w", err)
	}

	if !strings.Contains(string(buf[:n]), "204") {
		return fmt.Errorf("control socket did not return 204: %q", string(buf[:n]))
	}
	return nil
}

// LoadSnapshot sends the PUT /snapshot/load then PATCH /vm sequence over the
// given control socket.
func LoadSnapshot(socketPath, snapshotPath, memFilePath string) error {
	if err := sendControlMessage(socketPath, loadSnapshotRequest(snapshotPath, memFilePath)); err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if err := sendControlMessage(socketPath, resumeRequest()); err != nil {
		return fmt.Errorf("resuming vm: %w", err)
	}
	return nil
}
