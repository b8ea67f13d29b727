package transport

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Refresh outcomes recorded in admitad_token_refreshes_total.
const (
	refreshSuccess       = "success"
	refreshFailure       = "failure"
	refreshCallbackError = "callback_error"
)

type metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
	retries   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admitad_client_requests_total",
			Help: "Requests sent to the API by method and response status.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admitad_client_request_duration_seconds",
			Help:    "Latency of single API round trips.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admitad_token_refreshes_total",
			Help: "Refresh grant calls by outcome.",
		}, []string{"outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admitad_client_retries_total",
			Help: "Requests re-issued after a 401.",
		}),
	}

	if reg != nil {
		m.requests = register(reg, m.requests)
		m.duration = register(reg, m.duration)
		m.refreshes = register(reg, m.refreshes)
		m.retries = register(reg, m.retries)
	}
	return m
}

// register adds c to reg. When an identical collector is already registered,
// e.g. by another Client sharing the registry, the existing one is returned.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) observeRequest(method string, status int, seconds float64) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, label).Inc()
	m.duration.WithLabelValues(method).Observe(seconds)
}

func (m *metrics) observeRefresh(outcome string) {
	m.refreshes.WithLabelValues(outcome).Inc()
}
