package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReadyHandlerReflectsJobBusy(t *testing.T) {
	s := &Server{}

	rec := httptest.NewRecorder()
	s.readyHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("idle readyHandler status = %d, want %d", rec.Code, http.StatusOK)
	}

	s.SetJobRunning(true)
	rec = httptest.NewRecorder()
	s.readyHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("busy readyHandler status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	s.SetJobRunning(false)
	rec = httptest.NewRecorder()
	s.readyHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("idle-again readyHandler status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthHandlerAlwaysOK(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthHandler status = %d, want %d", rec.Code, http.StatusOK)
	}
}
