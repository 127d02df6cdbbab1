package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersAndHandler(t *testing.T) {
	m := New()

	m.Interaction("feed", "ok")
	m.Interaction("feed", "ok")
	m.LevelUp()
	m.DegradeRun("ok", 3)
	m.ActorsLive(2)
	m.ObserveOp("interact", time.Now())

	if got := testutil.ToFloat64(m.interactions.WithLabelValues("feed", "ok")); got != 2 {
		t.Fatalf("expected 2 feed interactions, got %v", got)
	}
	if got := testutil.ToFloat64(m.petsDegraded); got != 3 {
		t.Fatalf("expected 3 pets degraded, got %v", got)
	}
	if got := testutil.ToFloat64(m.actorsLive); got != 2 {
		t.Fatalf("expected 2 live actors, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "tamagitchi_level_ups_total 1") {
		t.Fatalf("expected level ups in exposition:\n%s", string(body))
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.Interaction("play", "ok")
	m.LevelUp()
	m.DegradeRun("error", 0)
	m.ActorsLive(1)
	m.ObserveOp("degrade", time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("expected 404 from nil metrics handler, got %d", rec.Code)
	}
}
