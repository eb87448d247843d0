package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector agrupa las métricas del servicio. Cada Collector tiene su propio
// registry, así varios routers (tests) conviven en el mismo proceso.
// Todos los métodos aceptan receptor nil (métricas desactivadas).
type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	DosesMaterializedTotal prometheus.Counter
	DosesMarkedTotal       *prometheus.CounterVec
	MedicineLifecycleTotal *prometheus.CounterVec
}

func NewCollector(serviceName string) *Collector {
	ns := namespace(serviceName)
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		registry: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route", "status"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		DosesMaterializedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "doses",
			Name:      "materialized_total",
			Help:      "Dose slots inserted by materialization (existing slots are not counted).",
		}),

		DosesMarkedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "doses",
			Name:      "marked_total",
			Help:      "Dose taken-state changes by resulting state.",
		}, []string{"taken"}),

		MedicineLifecycleTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "medicines",
			Name:      "lifecycle_total",
			Help:      "Medicine lifecycle transitions by action.",
		}, []string{"action"}),
	}
}

// Handler expone el registry propio en formato Prometheus.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	code := strconv.Itoa(status)
	c.RequestsTotal.WithLabelValues(method, route, code).Inc()
	c.RequestDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
}

func (c *Collector) RequestStarted() {
	if c != nil {
		c.InFlightGauge.Inc()
	}
}

func (c *Collector) RequestFinished() {
	if c != nil {
		c.InFlightGauge.Dec()
	}
}

func (c *Collector) DosesMaterialized(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.DosesMaterializedTotal.Add(float64(n))
}

func (c *Collector) DoseMarked(taken bool) {
	if c == nil {
		return
	}
	c.DosesMarkedTotal.WithLabelValues(strconv.FormatBool(taken)).Inc()
}

// MedicineLifecycle cuenta create/archive/reactivate/delete.
func (c *Collector) MedicineLifecycle(action string) {
	if c == nil {
		return
	}
	c.MedicineLifecycleTotal.WithLabelValues(action).Inc()
}

// namespace normaliza el nombre de la app a un namespace Prometheus válido.
func namespace(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return "medreminder"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
