// Package gateway implements the SSE Subscriber Gateway: one long-lived
// response stream per client, replaying bounded history on connect and then
// forwarding the Monitor's live bus events until the client disconnects.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"pumpwatch/internal/monitor"
	"pumpwatch/internal/observability"
)

const (
	heartbeatInterval = 30 * time.Second
	initialSnapshotN  = 30
)

// Gateway serves GET /stream.
type Gateway struct {
	monitor *monitor.Monitor
	log     *log.Logger

	subscribers atomic.Int64
}

// New builds a Gateway over mon. logger may be nil.
func New(mon *monitor.Monitor, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.Default()
	}
	return &Gateway{monitor: mon, log: logger}
}

// ServeHTTP implements the handshake sequence: connected, start-if-idle,
// initial snapshot (either immediate or at historyLoaded), then live
// forwarding of token/status events plus a 30s heartbeat, until the client
// goes away.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	writeEvent(w, "connected", map[string]any{
		"status":    "connected",
		"timestamp": time.Now().UnixMilli(),
	})
	flusher.Flush()

	if !g.monitor.Running() {
		g.monitor.Start(r.Context())
	}

	busEvents, unsubscribe := g.monitor.Bus().Subscribe()
	observability.UpdateSSESubscribers(int(g.subscribers.Add(1)))
	defer func() {
		unsubscribe()
		observability.UpdateSSESubscribers(int(g.subscribers.Add(-1)))
	}()

	if g.monitor.InitialLoadComplete() {
		g.emitInitialSnapshot(w)
		writeEvent(w, "loaded", map[string]any{
			"status": "history_loaded",
			"count":  len(g.monitor.Recent(0)),
		})
		flusher.Flush()
	} else {
		g.awaitHistoryLoad(r.Context(), w, busEvents)
		flusher.Flush()
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			writeEvent(w, "heartbeat", map[string]any{
				"timestamp": time.Now().UnixMilli(),
				"stats":     g.monitor.Stats(),
			})
			flusher.Flush()
		case ev, open := <-busEvents:
			if !open {
				return
			}
			if g.forwardLiveEvent(w, ev) {
				flusher.Flush()
			}
		}
	}
}

// awaitHistoryLoad forwards loadingHistory/historyLoaded as loading/loaded
// while backfill is still in flight, then emits the initial snapshot once
// historyLoaded arrives. Other bus events received in the meantime are
// dropped here; the live loop re-subscribes to nothing further because the
// same busEvents channel continues to be read afterward.
func (g *Gateway) awaitHistoryLoad(ctx context.Context, w http.ResponseWriter, busEvents <-chan monitor.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-busEvents:
			if !open {
				return
			}
			switch ev.Kind {
			case monitor.EventLoadingHistory:
				writeEvent(w, "loading", map[string]any{
					"status": "loading_history",
					"count":  ev.Count,
				})
			case monitor.EventHistoryLoaded:
				writeEvent(w, "loaded", map[string]any{
					"status": "history_loaded",
					"count":  ev.Count,
				})
				g.emitInitialSnapshot(w)
				return
			}
		}
	}
}

func (g *Gateway) emitInitialSnapshot(w http.ResponseWriter) {
	writeEvent(w, "initial", map[string]any{
		"tokens": g.monitor.Recent(initialSnapshotN),
		"stats":  g.monitor.Stats(),
	})
}

// forwardLiveEvent writes ev to w if it is one the gateway forwards,
// reporting whether anything was written.
func (g *Gateway) forwardLiveEvent(w http.ResponseWriter, ev monitor.Event) bool {
	switch ev.Kind {
	case monitor.EventTokenPassed:
		writeEvent(w, "token", map[string]any{"token": ev.Record, "type": "passed"})
	case monitor.EventTokenFiltered:
		writeEvent(w, "token", map[string]any{"token": ev.Record, "type": "filtered"})
	case monitor.EventConnected:
		writeEvent(w, "status", map[string]any{"status": "connected"})
	case monitor.EventDisconnected:
		writeEvent(w, "status", map[string]any{"status": "disconnected"})
	default:
		return false
	}
	return true
}

// writeEvent serializes data as JSON and writes it as one SSE frame. Encode
// errors are swallowed: there is nothing the handler can do but drop the
// frame and keep the stream open for the next one.
func writeEvent(w http.ResponseWriter, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}
