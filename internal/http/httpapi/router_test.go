package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"ouroz/internal/gateway"
	"ouroz/internal/http/handlers"
)

type echoExecutor struct {
	locale string
}

func (e *echoExecutor) Execute(ctx context.Context, req gateway.Request) gateway.Envelope {
	e.locale = gateway.CallInfoFrom(ctx).Locale
	return gateway.Succeeded(gateway.TextResult{Text: string(req.Operation())})
}

func newTestServer(t *testing.T, exec *echoExecutor) *httptest.Server {
	t.Helper()
	app := &handlers.App{Gateway: exec}
	srv := httptest.NewServer(NewRouter(app, Options{
		Logger:          zerolog.New(io.Discard),
		CORSOrigins:     []string{"https://ouroz.ma"},
		DefaultLocale:   "en",
		RateLimitPerMin: 100,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouterServesAIRoutes(t *testing.T) {
	exec := &echoExecutor{}
	srv := newTestServer(t, exec)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/ai/negotiation-advice", strings.NewReader(`{"draft":"Our best price is 90 MAD"}`))
	req.Header.Set("Accept-Language", "fr-MA,fr;q=0.9")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d body=%s", resp.StatusCode, body)
	}
	if strings.TrimSpace(string(body)) != `{"success":true,"text":"negotiation-advice"}` {
		t.Fatalf("body = %s", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID")
	}
	if exec.locale != "fr" {
		t.Fatalf("locale = %q, want fr", exec.locale)
	}
}

func TestRouterRejectsWrongMethodAndUnknownPath(t *testing.T) {
	srv := newTestServer(t, &echoExecutor{})

	resp, err := srv.Client().Get(srv.URL + "/api/ai/generate-image")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d", resp.StatusCode)
	}

	resp, err = srv.Client().Get(srv.URL + "/api/ai/nope")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path status = %d", resp.StatusCode)
	}
}

func TestRouterPreflight(t *testing.T) {
	srv := newTestServer(t, &echoExecutor{})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/ai/generate-video", nil)
	req.Header.Set("Origin", "https://ouroz.ma")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "https://ouroz.ma" {
		t.Fatal("origin not allowed")
	}
}

func TestRouterOpsRoutes(t *testing.T) {
	srv := newTestServer(t, &echoExecutor{})
	for path, want := range map[string]int{
		"/v1/healthz":           http.StatusOK,
		"/v1/openapi.json":      http.StatusOK,
		"/v1/stats/generations": http.StatusServiceUnavailable,
	} {
		resp, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Fatalf("GET %s = %d, want %d", path, resp.StatusCode, want)
		}
	}
}
