// Package metrics concentra los collectors de Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pigfarm_http_requests_total",
		Help: "HTTP requests by route pattern, method and status",
	}, []string{"route", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pigfarm_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	alertsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pigfarm_alerts_generated_total",
		Help: "Lifecycle alerts returned by type and variant",
	}, []string{"type", "variant"})

	compatibilityChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pigfarm_compatibility_checks_total",
		Help: "Breeding compatibility checks by outcome",
	}, []string{"compatible"})

	overdueBirths = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pigfarm_overdue_births_notified_total",
		Help: "Overdue births surfaced for the first time in a session",
	})
)

// ObserveHTTP registra un request ya terminado.
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func AlertGenerated(alertType, variant string) {
	alertsGenerated.WithLabelValues(alertType, variant).Inc()
}

func CompatibilityChecked(compatible bool) {
	compatibilityChecks.WithLabelValues(strconv.FormatBool(compatible)).Inc()
}

func OverdueNotified(n int) {
	if n > 0 {
		overdueBirths.Add(float64(n))
	}
}

// Handler expone el registry por defecto.
func Handler() http.Handler {
	return promhttp.Handler()
}
