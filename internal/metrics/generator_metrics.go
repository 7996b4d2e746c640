// Package metrics instruments the timetable generator with Prometheus
// collectors, registered the way the teacher's MetricsService registers
// its HTTP/cache/DB collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GeneratorMetrics instruments one generator service instance.
type GeneratorMetrics struct {
	registry           *prometheus.Registry
	handler            http.Handler
	generationDuration *prometheus.HistogramVec
	violationsTotal    *prometheus.CounterVec
	freePeriodsLast    prometheus.Gauge
}

// NewGeneratorMetrics registers the generator's Prometheus collectors.
func NewGeneratorMetrics() *GeneratorMetrics {
	registry := prometheus.NewRegistry()

	generationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "Duration of a full timetable generation pipeline run",
		Buckets: prometheus.DefBuckets,
	}, []string{"placer"})

	violationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_violations_total",
		Help: "Total validator violations observed across generation runs, by kind",
	}, []string{"kind"})

	freePeriodsLast := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_free_periods_last_run",
		Help: "Total free periods produced by the most recent generation run",
	})

	registry.MustRegister(generationDuration, violationsTotal, freePeriodsLast)

	return &GeneratorMetrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		generationDuration: generationDuration,
		violationsTotal:    violationsTotal,
		freePeriodsLast:    freePeriodsLast,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *GeneratorMetrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveGeneration records one pipeline run's wall-clock duration,
// labelled by which placer drove theory placement.
func (m *GeneratorMetrics) ObserveGeneration(placer string, duration time.Duration) {
	if m == nil {
		return
	}
	m.generationDuration.WithLabelValues(placer).Observe(duration.Seconds())
}

// RecordViolations increments the violation counter for each observed
// kind. Kind is the caller-classified category of a validator message
// (e.g. "consecutive_run", "free_period_total", "unallocated_slot").
func (m *GeneratorMetrics) RecordViolations(kind string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.violationsTotal.WithLabelValues(kind).Add(float64(count))
}

// SetFreePeriodsLastRun records the free-period total of the most
// recent generation run.
func (m *GeneratorMetrics) SetFreePeriodsLastRun(total int) {
	if m == nil {
		return
	}
	m.freePeriodsLast.Set(float64(total))
}
