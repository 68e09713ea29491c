// Package hostserver is the Hyperlight host-server: an HTTP front-end
// backed by a FIFO pool of pre-initialized in-process sandboxes, bridging
// each request to a guest function call over a vmbus channel pair.
package hostserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Server is the Hyperlight host-server's HTTP handler and sandbox pool.
type Server struct {
	pool *pool
	fn   GuestFunction
}

// New constructs a Server bound to fn, pre-creating initSandboxSize
// sandboxes up front.
func New(fn GuestFunction, initSandboxSize int) *Server {
	s := &Server{
		pool: &pool{},
		fn:   fn,
	}
	for i := 0; i < initSandboxSize; i++ {
		s.pool.push(newGuestInstance(fn))
	}
	return s
}

// ServeHTTP implements the two request classes: an empty body prewarms one
// additional sandbox (204), a non-empty body is routed through the pool to
// a guest invocation (200 JSON, or 400/500 on failure).
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.WithError(err).Warn("hostserver: reading request body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(body) == 0 {
		s.pool.push(newGuestInstance(s.fn))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req invokeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	inst := s.pool.pop()
	if inst == nil {
		inst = newGuestInstance(s.fn)
	}

	resp, err := s.invoke(inst, req.bytes())
	if err != nil {
		log.WithError(err).Warn("hostserver: guest invocation failed; discarding sandbox")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// json.Marshal coerces a string field to valid UTF-8, replacing invalid
	// bytes with the Unicode replacement character — exactly the
	// utf8-lossy framing the response needs, with no extra conversion step.
	payload, err := json.Marshal(invokeResponse{Response: string(resp)})
	if err != nil {
		log.WithError(err).Warn("hostserver: encoding response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.pool.push(inst)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// invoke runs the guest call, recovering from a guest panic so it surfaces
// as an ordinary error instead of taking the server down; per the pool
// invariants, a sandbox that fails mid-serve is never returned to the pool.
func (s *Server) invoke(inst *GuestInstance, data []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("guest function panicked: %v", r)
		}
	}()
	out = inst.invoke(data)
	return out, nil
}
