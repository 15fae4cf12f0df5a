package scheduler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

const metricsNamespace = "inventory_sync"

// Metrics agrupa os coletores da sincronização em um registry próprio
type Metrics struct {
	registry     *prometheus.Registry
	rowsTotal    *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	jobsTotal    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		rowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "rows_total",
				Help:      "Linhas processadas por tipo de entidade e desfecho.",
			},
			[]string{"entity_type", "outcome"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "step_duration_seconds",
				Help:      "Duração de cada etapa do pipeline.",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
			[]string{"entity_type"},
		),
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "jobs_total",
				Help:      "Jobs de sincronização finalizados por status.",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		m.rowsTotal,
		m.stepDuration,
		m.jobsTotal,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) ObserveStep(result *domain.EntitySyncResult) {
	if m == nil || result == nil {
		return
	}

	entityType := string(result.EntityType)
	m.rowsTotal.WithLabelValues(entityType, "fetched").Add(float64(result.Fetched))
	m.rowsTotal.WithLabelValues(entityType, "upserted").Add(float64(result.Upserted))
	m.rowsTotal.WithLabelValues(entityType, "skipped").Add(float64(result.Skipped))
	m.rowsTotal.WithLabelValues(entityType, "errors").Add(float64(result.Errors))

	if !result.FinishedAt.IsZero() {
		m.stepDuration.WithLabelValues(entityType).Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())
	}
}

func (m *Metrics) ObserveJob(status domain.JobStatus) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(string(status)).Inc()
}

// Handler expõe o registry no formato de texto do Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
