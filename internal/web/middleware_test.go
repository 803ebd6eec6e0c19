package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsLoopbackRemoteAddr(t *testing.T) {
	loopback := []string{
		"127.0.0.1:12345",
		"[::1]:12345",
		"127.0.0.1",
	}

	for _, addr := range loopback {
		if !isLoopbackRemoteAddr(addr) {
			t.Errorf("isLoopbackRemoteAddr(%q) = false, want true", addr)
		}
	}

	nonLoopback := []string{
		"8.8.8.8:12345",
		"192.168.1.1:8080",
		"10.0.0.1:3000",
		"not-an-ip:1234",
		"",
	}

	for _, addr := range nonLoopback {
		if isLoopbackRemoteAddr(addr) {
			t.Errorf("isLoopbackRemoteAddr(%q) = true, want false", addr)
		}
	}
}

func TestIsLoopbackOrigin(t *testing.T) {
	allowed := []string{
		"http://127.0.0.1:8788",
		"http://localhost:8788",
		"http://localhost",
		"http://[::1]:8788",
	}
	for _, origin := range allowed {
		if !isLoopbackOrigin(origin) {
			t.Errorf("isLoopbackOrigin(%q) = false, want true", origin)
		}
	}

	denied := []string{
		"https://evil.com",
		"http://192.168.1.1:8788",
		"ftp://localhost",
		"null",
		"http://localhost.evil.com",
	}
	for _, origin := range denied {
		if isLoopbackOrigin(origin) {
			t.Errorf("isLoopbackOrigin(%q) = true, want false", origin)
		}
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoopbackOnly_RejectsRemotePeer(t *testing.T) {
	handler := LoopbackOnly(testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:40000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestLoopbackOnly_RejectsCrossOriginPost(t *testing.T) {
	handler := LoopbackOnly(testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	req.Header.Set("Origin", "https://evil.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestLoopbackOnly_AllowsLocalPost(t *testing.T) {
	handler := LoopbackOnly(testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	req.Header.Set("Origin", "http://127.0.0.1:8788")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RequestIDMiddleware()(RecoveryMiddleware(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(RequestIDKey).(string)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if len(seen) != 8 {
		t.Fatalf("request id = %q, want 8 chars", seen)
	}
	if rr.Header().Get("X-Request-ID") != seen {
		t.Errorf("header = %q, context = %q", rr.Header().Get("X-Request-ID"), seen)
	}
}
