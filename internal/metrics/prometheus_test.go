package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordersUpdateCollectors(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("ok")
	m.RecordRequest("ok")
	m.RecordFallback()
	m.RecordIntent("time", "rules")
	m.RecordHTTPRequest("POST", "/process", 200, 0.2)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("ok")); got != 2 {
		t.Errorf("Expected 2 ok requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.Fallbacks); got != 1 {
		t.Errorf("Expected 1 fallback, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/process", "200")); got != 1 {
		t.Errorf("Expected 1 HTTP request, got %v", got)
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordFallback()
	if got := testutil.ToFloat64(b.Fallbacks); got != 0 {
		t.Errorf("Expected separate registries, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordIntent("search", "llm")
	m.ObserveStage(StageASR, 0.5)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"aura_intents_total", "aura_stage_duration_seconds", "go_goroutines"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("Expected %s in output", name)
		}
	}
}
