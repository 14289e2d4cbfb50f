package worker

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthServer_Liveness(t *testing.T) {
	h := NewHealthServer(":0", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.handleLiveness(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("body = %q, want healthy status", rec.Body.String())
	}
}

func TestHealthServer_ReadinessFlips(t *testing.T) {
	h := NewHealthServer(":0", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	h.handleReadiness(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status before ready = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	h.SetReady(true)
	rec = httptest.NewRecorder()
	h.handleReadiness(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status after ready = %d, want %d", rec.Code, http.StatusOK)
	}

	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.handleReadiness(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status after unready = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
