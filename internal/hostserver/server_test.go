package hostserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPrewarmIncreasesPoolSize(t *testing.T) {
	s := New(EchoGuestFunction, 2)
	if got := s.pool.size(); got != 2 {
		t.Fatalf("pool size after init = %d, want 2", got)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := s.pool.size(); got != 3 {
		t.Fatalf("pool size after prewarm = %d, want 3", got)
	}
}

func TestEchoRoundTrip(t *testing.T) {
	s := New(EchoGuestFunction, 0)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"data":[1,2,3]}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	want := `{"response":"\u0001\u0002\u0003"}`
	if rec.Body.String() != want {
		t.Fatalf("body = %q, want %q", rec.Body.String(), want)
	}
	if got := s.pool.size(); got != 1 {
		t.Fatalf("pool size after invoke = %d, want 1 (the inline-created sandbox is returned)", got)
	}
}

func TestInvokeBadJSON(t *testing.T) {
	s := New(EchoGuestFunction, 0)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
