package common

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "nequi"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultCached  = "cached"
)

// Metrics holds the collectors shared by the token provider and the gateway client.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	AuthRequests    *prometheus.CounterVec
	GatewayRequests *prometheus.CounterVec
	GatewayDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// Pass prometheus.NewRegistry() in tests to keep them isolated.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		AuthRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "auth_requests_total",
				Help:      "Token requests served, by result (cached, success, failure)",
			},
			[]string{"result"},
		),
		GatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "gateway_requests_total",
				Help:      "Gateway operation calls by operation and result",
			},
			[]string{"operation", "result"},
		),
		GatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Gateway operation round-trip duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	for _, c := range []prometheus.Collector{m.AuthRequests, m.GatewayRequests, m.GatewayDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordAuth counts one token request with the given result.
func (m *Metrics) RecordAuth(result string) {
	if m == nil {
		return
	}
	m.AuthRequests.WithLabelValues(result).Inc()
}

// RecordGateway counts one gateway call and observes its duration.
func (m *Metrics) RecordGateway(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.GatewayRequests.WithLabelValues(operation, result).Inc()
	m.GatewayDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
