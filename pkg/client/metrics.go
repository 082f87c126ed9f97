package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alnah/go-aliyun/pkg/apierr"
)

// Request outcomes recorded in the outcome label.
const (
	OutcomeResponse = "response"
	OutcomeTimeout  = "timeout"
	OutcomeConnect  = "connect"
	OutcomeStatus   = "status"
	OutcomeInternal = "internal"
)

// Metrics holds the client's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	// Requests counts requests by action and outcome
	Requests *prometheus.CounterVec
	// Duration records request durations in seconds
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil. It panics if they are already registered there.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "aliyun_requests_total", Help: "Aliyun API requests by action and outcome."},
			[]string{"action", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "aliyun_request_duration_seconds", Help: "Aliyun API request duration in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"action"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration)
	}
	return m
}

func (m *Metrics) observe(action, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(action, outcome).Inc()
	m.Duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// outcomeOf maps a Send error to its outcome label. A rejection arrives as a
// normal response; it is only classified later.
func outcomeOf(err error) string {
	if err == nil {
		return OutcomeResponse
	}
	e, ok := apierr.AsError(err)
	if !ok || e.Kind != apierr.KindRequestFailure {
		return OutcomeInternal
	}
	switch e.Failure {
	case apierr.FailureTimeout:
		return OutcomeTimeout
	case apierr.FailureConnect:
		return OutcomeConnect
	default:
		return OutcomeStatus
	}
}
