package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafdesk_broker_operations_total",
		Help: "Broker operations by name and outcome.",
	}, []string{"op", "outcome"})

	durations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafdesk_broker_operation_seconds",
		Help:    "Broker operation wall time.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)

// ObserveOperation records one broker operation. Use as:
//
//	defer telemetry.ObserveOperation("sample", time.Now())(&err)
func ObserveOperation(op string, start time.Time) func(err *error) {
	return func(err *error) {
		outcome := "ok"
		if err != nil && *err != nil {
			outcome = "error"
		}
		operations.WithLabelValues(op, outcome).Inc()
		durations.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// Expose serves /metrics on the given port in the background.
func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}
