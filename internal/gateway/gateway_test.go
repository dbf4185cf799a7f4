package gateway

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pumpwatch/internal/monitor"
	"pumpwatch/internal/scoring"
)

func newIdleMonitor() *monitor.Monitor {
	return monitor.New(monitor.Options{ScoringCfg: scoring.Config{}})
}

func TestGateway_HandshakeSequence(t *testing.T) {
	mon := newIdleMonitor()
	gw := New(mon, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest("GET", "/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		gw.ServeHTTP(rec, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ServeHTTP did not return after context cancellation")
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: connected") {
		t.Errorf("expected connected event, got: %s", body)
	}
	if !strings.Contains(body, "event: loaded") {
		t.Errorf("expected loaded event (idle monitor has no backfill to do), got: %s", body)
	}
	if !strings.Contains(body, "event: initial") {
		t.Errorf("expected initial event, got: %s", body)
	}
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Errorf("expected SSE content type, got %q", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("Cache-Control") != "no-cache" {
		t.Errorf("expected no-cache, got %q", rec.Header().Get("Cache-Control"))
	}
	if !mon.Running() {
		t.Error("expected ServeHTTP to idempotently start the monitor")
	}
}

func TestGateway_TokenForwarding(t *testing.T) {
	mon := newIdleMonitor()
	gw := New(mon, nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		gw.ServeHTTP(rec, req)
		close(done)
	}()

	// Give the handshake time to complete and subscribe before publishing.
	time.Sleep(50 * time.Millisecond)
	mon.Bus().Publish(monitor.Event{Kind: monitor.EventTokenPassed})
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ServeHTTP did not return after cancel")
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"type":"passed"`) {
		t.Errorf("expected forwarded passed token event, got: %s", body)
	}
}
