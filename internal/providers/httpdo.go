package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"pumpwatch/internal/observability"
)

// Recorder observes the outcome and latency of a single provider HTTP call.
// It backs the provider audit log and the provider latency warehouse; a nil
// Recorder is valid everywhere one is accepted and simply means "don't
// record this call".
type Recorder interface {
	RecordAudit(ctx context.Context, provider, operation, outcome string, keyIndex int)
	RecordLatency(ctx context.Context, provider, operation string, latencyMs int64, timedOut bool)
}

// Outcome labels recorded against a Recorder.
const (
	outcomeOK           = "ok"
	outcomeTimeout      = "timeout"
	outcomeUnauthorized = "unauthorized"
	outcomeMalformed    = "malformed"
)

// doJSON issues a GET against url with bearer/query credential auth and
// decodes a JSON body into out. It never returns an error for conditions a
// caller should treat as "data absent" — 404s and timeouts are reported via
// the bool return so providers can apply their own fail-soft sentinel. A
// non-nil error is reserved for 401/429 (so the caller can rotate keys) and
// unexpected transport failures worth a log line. If rec is non-nil, every
// call is recorded once under (provider, operation) regardless of outcome.
func doJSON(ctx context.Context, client *http.Client, logger *log.Logger, method, url string, headers map[string]string, out interface{}, rec Recorder, provider, operation string, keyIndex int) (found bool, err error) {
	start := time.Now()
	outcome := outcomeOK
	timedOut := false
	defer func() {
		observability.RecordProviderCall(provider, operation, outcome, time.Since(start).Seconds())
		if rec == nil {
			return
		}
		rec.RecordAudit(ctx, provider, operation, outcome, keyIndex)
		rec.RecordLatency(ctx, provider, operation, time.Since(start).Milliseconds(), timedOut)
	}()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		outcome = outcomeMalformed
		return false, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			logger.Printf("request to %s timed out", url)
			outcome, timedOut = outcomeTimeout, true
			return false, nil
		}
		outcome = outcomeMalformed
		return false, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		outcome = outcomeMalformed
		return false, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to decode
	case http.StatusNotFound:
		return false, nil
	case http.StatusUnauthorized, http.StatusTooManyRequests:
		outcome = outcomeUnauthorized
		return false, fmt.Errorf("provider auth/rate error: status %d", resp.StatusCode)
	default:
		logger.Printf("unexpected status %d from %s", resp.StatusCode, url)
		outcome = outcomeMalformed
		return false, nil
	}

	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		logger.Printf("decode response from %s: %v", url, err)
		outcome = outcomeMalformed
		return false, nil
	}
	return true, nil
}

// defaultHTTPClient builds a client with a hard per-call budget; individual
// provider calls additionally carry a context deadline from the caller.
func defaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
