package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
)

// Metrics colectores Prometheus del ledger sobre un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	MovementsApplied  *prometheus.CounterVec
	MovementsRejected *prometheus.CounterVec
	MovementLines     *prometheus.CounterVec
	ApplyDuration     *prometheus.HistogramVec

	ReconcileRuns          prometheus.Counter
	ReconcileDiscrepancies prometheus.Gauge
}

var _ inventory.MetricsRecorder = (*Metrics)(nil)

// New registra los colectores bajo el namespace dado (p. ej. "wms").
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total de solicitudes HTTP",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duración de las solicitudes HTTP en segundos",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path"})

	m.MovementsApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "movements_applied_total",
		Help:      "Movimientos confirmados por tipo",
	}, []string{"movement_type"})

	m.MovementsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "movements_rejected_total",
		Help:      "Movimientos rechazados por tipo y código de error",
	}, []string{"movement_type", "code"})

	m.MovementLines = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "entries_total",
		Help:      "Líneas y efectos persistidos",
	}, []string{"kind"})

	m.ApplyDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "apply_duration_seconds",
		Help:      "Duración de validación + transacción de un movimiento",
		Buckets:   prometheus.DefBuckets,
	}, []string{"movement_type"})

	m.ReconcileRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "reconcile_runs_total",
		Help:      "Ejecuciones de reconciliación",
	})

	m.ReconcileDiscrepancies = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "reconcile_discrepancies",
		Help:      "SKUs divergentes en la última reconciliación",
	})

	registry.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.MovementsApplied, m.MovementsRejected, m.MovementLines, m.ApplyDuration,
		m.ReconcileRuns, m.ReconcileDiscrepancies,
	)
	return m
}

// Handler expone el registry en formato Prometheus/OpenMetrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry devuelve el registry (pruebas).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest registra una solicitud HTTP. path debe ser la ruta registrada, no la URL cruda.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// MovementApplied implementa inventory.MetricsRecorder.
func (m *Metrics) MovementApplied(movementType string, lines, effects int, elapsed time.Duration) {
	m.MovementsApplied.WithLabelValues(movementType).Inc()
	m.MovementLines.WithLabelValues("line").Add(float64(lines))
	m.MovementLines.WithLabelValues("effect").Add(float64(effects))
	m.ApplyDuration.WithLabelValues(movementType).Observe(elapsed.Seconds())
}

// MovementRejected implementa inventory.MetricsRecorder.
func (m *Metrics) MovementRejected(movementType, code string) {
	m.MovementsRejected.WithLabelValues(movementType, code).Inc()
}

// ReconcileFinished implementa inventory.MetricsRecorder.
func (m *Metrics) ReconcileFinished(discrepancies int) {
	m.ReconcileRuns.Inc()
	m.ReconcileDiscrepancies.Set(float64(discrepancies))
}
