package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"pumpwatch/internal/enrich"
	"pumpwatch/internal/gateway"
	"pumpwatch/internal/monitor"
	"pumpwatch/internal/scoring"
	"pumpwatch/internal/storage/memory"
)

func newTestAPI() *API {
	mon := monitor.New(monitor.Options{ScoringCfg: scoring.Config{}})
	orch := enrich.New(enrich.Options{})
	gw := gateway.New(mon, nil)
	return New(mon, orch, gw, memory.NewProviderAuditStore(), memory.NewProviderLatencyStore(), nil)
}

func TestHandleListTokens_StartsMonitorAndReturnsEnvelope(t *testing.T) {
	api := newTestAPI()
	mux := http.NewServeMux()
	api.Routes(mux)

	req := httptest.NewRequest(http.MethodGet, "/tokens", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.True(t, api.monitor.Running())
}

func TestHandleListTokens_RejectsBadPassedParam(t *testing.T) {
	api := newTestAPI()
	mux := http.NewServeMux()
	api.Routes(mux)

	req := httptest.NewRequest(http.MethodGet, "/tokens?passed=maybe", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetToken_NotFound(t *testing.T) {
	api := newTestAPI()
	mux := http.NewServeMux()
	api.Routes(mux)

	req := httptest.NewRequest(http.MethodGet, "/tokens/doesnotexist", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
}

func TestHandleAnalyze_RequiresTokenAddress(t *testing.T) {
	api := newTestAPI()
	mux := http.NewServeMux()
	api.Routes(mux)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyze_WithoutProvidersStillReturnsRecord(t *testing.T) {
	api := newTestAPI()
	mux := http.NewServeMux()
	api.Routes(mux)

	body, err := json.Marshal(analyzeRequest{TokenAddress: "Mint1111111111111111111111111111111111111"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Success)
}

func TestHandleProviderAudit_EmptyStoreReturnsEmptyList(t *testing.T) {
	api := newTestAPI()
	mux := http.NewServeMux()
	api.Routes(mux)

	req := httptest.NewRequest(http.MethodGet, "/diagnostics/provider-audit", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleProviderLatency_RejectsBadSince(t *testing.T) {
	api := newTestAPI()
	mux := http.NewServeMux()
	api.Routes(mux)

	req := httptest.NewRequest(http.MethodGet, "/diagnostics/provider-latency?since=notanumber", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
