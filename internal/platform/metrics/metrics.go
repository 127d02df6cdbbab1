package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tamagitchi"

// Metrics agrupa los colectores del servicio. Todos los métodos toleran
// receptor nil, así los tests pueden construir actores sin métricas.
type Metrics struct {
	registry *prometheus.Registry

	interactions *prometheus.CounterVec
	levelUps     prometheus.Counter
	degradeRuns  *prometheus.CounterVec
	petsDegraded prometheus.Counter
	actorsLive   prometheus.Gauge
	opDuration   *prometheus.HistogramVec
}

// New registra los colectores en un registry propio (más runtime/process).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_total",
			Help:      "Interactions processed by kind and outcome.",
		}, []string{"kind", "outcome"}),
		levelUps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_ups_total",
			Help:      "Interactions that raised a pet level.",
		}),
		degradeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degradation_runs_total",
			Help:      "Partition degradation runs by outcome.",
		}, []string{"outcome"}),
		petsDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pets_degraded_total",
			Help:      "Pets whose vitals were persisted by a degradation run.",
		}),
		actorsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "actors_live",
			Help:      "Partition actors currently resident.",
		}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "actor_operation_seconds",
			Help:      "Time spent inside the actor per operation, queueing included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	reg.MustRegister(m.interactions, m.levelUps, m.degradeRuns, m.petsDegraded, m.actorsLive, m.opDuration)
	return m
}

func (m *Metrics) Interaction(kind, outcome string) {
	if m == nil {
		return
	}
	m.interactions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) LevelUp() {
	if m == nil {
		return
	}
	m.levelUps.Inc()
}

func (m *Metrics) DegradeRun(outcome string, updated int) {
	if m == nil {
		return
	}
	m.degradeRuns.WithLabelValues(outcome).Inc()
	if updated > 0 {
		m.petsDegraded.Add(float64(updated))
	}
}

func (m *Metrics) ActorsLive(n int) {
	if m == nil {
		return
	}
	m.actorsLive.Set(float64(n))
}

// ObserveOp mide desde start hasta ahora.
func (m *Metrics) ObserveOp(op string, start time.Time) {
	if m == nil {
		return
	}
	m.opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry se expone para tests (prometheus/testutil).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
