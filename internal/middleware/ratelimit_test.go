package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		remote    string
		want      string
	}{
		{name: "socket peer", remote: "198.51.100.10:1234", want: "198.51.100.10"},
		{name: "forwarded header ignored", forwarded: "203.0.113.1", remote: "198.51.100.10:1234", want: "198.51.100.10"},
		{name: "ipv6 remote", remote: "[2001:db8::2]:443", want: "2001:db8::2"},
		{name: "remote without port", remote: "203.0.113.1", want: "203.0.113.1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-image", nil)
			req.RemoteAddr = tc.remote
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if got := ClientIP(req); got != tc.want {
				t.Fatalf("ClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	handler := RateLimit(2, time.Minute)(okHandler)

	accepted := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-video", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			accepted++
		} else if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
	if accepted != 2 {
		t.Fatalf("accepted = %d, want 2", accepted)
	}
}

func TestRateLimitBehindUntrustedPeerStillLimits(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}
	handler := RealIP(trusted)(RateLimit(1, time.Minute)(okHandler))

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/ai/transcribe", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("198.51.100.1"); code != http.StatusOK {
		t.Fatalf("first request = %d", code)
	}
	if code := send("198.51.100.2"); code != http.StatusTooManyRequests {
		t.Fatalf("spoofed second request = %d, want 429", code)
	}
}

func TestRateLimitKeysOnClientsBehindTrustedProxy(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}
	handler := RealIP(trusted)(RateLimit(1, time.Minute)(okHandler))

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/ai/transcribe", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.5"); code != http.StatusOK {
		t.Fatalf("first client = %d", code)
	}
	if code := send("203.0.113.6"); code != http.StatusOK {
		t.Fatalf("second client = %d, want 200", code)
	}
	// A client-supplied leading hop does not change the resolved address.
	if code := send("1.2.3.4, 203.0.113.5"); code != http.StatusTooManyRequests {
		t.Fatalf("repeat client = %d, want 429", code)
	}
}

func TestTrustedProxiesResolve(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.1"})
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}

	tests := []struct {
		name      string
		remote    string
		forwarded string
		realIP    string
		want      string
	}{
		{name: "untrusted peer", remote: "203.0.113.9:1", forwarded: "198.51.100.1", want: "203.0.113.9"},
		{name: "rightmost untrusted hop", remote: "10.1.2.3:1", forwarded: "198.51.100.1, 203.0.113.2, 192.0.2.1", want: "203.0.113.2"},
		{name: "all hops trusted", remote: "10.1.2.3:1", forwarded: "10.9.9.9", want: "10.9.9.9"},
		{name: "garbage hop stops walk", remote: "10.1.2.3:1", forwarded: "junk, 10.0.0.5", want: "10.0.0.5"},
		{name: "x-real-ip fallback", remote: "192.0.2.1:1", realIP: "198.51.100.4", want: "198.51.100.4"},
		{name: "no headers", remote: "10.1.2.3:1", want: "10.1.2.3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := trusted.Resolve(req); got != tc.want {
				t.Fatalf("Resolve() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseTrustedProxiesRejectsGarbage(t *testing.T) {
	if _, err := ParseTrustedProxies([]string{"10.0.0.0/8", "not-an-ip"}); err == nil {
		t.Fatal("expected error")
	}
}
