// Package metrics exposes the dispatch pipeline's observability hook.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome of a single due record within a pass.
type Outcome string

const (
	OutcomeSent        Outcome = "sent"
	OutcomeAlreadySent Outcome = "already_sent"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeFailed      Outcome = "failed"
)

// Observer receives pipeline events. Implementations must be safe for
// concurrent use.
type Observer interface {
	PassFinished(d time.Duration, due int, err error)
	Outcome(o Outcome)
	GatewayCall(d time.Duration, err error)
	BreakerState(name, state string)
}

// Nop discards every event.
type Nop struct{}

func (Nop) PassFinished(time.Duration, int, error) {}
func (Nop) Outcome(Outcome)                        {}
func (Nop) GatewayCall(time.Duration, error)       {}
func (Nop) BreakerState(string, string)            {}

// Prometheus records pipeline events as prometheus series.
type Prometheus struct {
	passes          *prometheus.CounterVec
	passDuration    prometheus.Histogram
	dueRecords      prometheus.Gauge
	outcomes        *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	breakerState    *prometheus.GaugeVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		passes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_scan_passes_total",
				Help: "Number of scheduler passes by result",
			},
			[]string{"result"},
		),
		passDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reminder_scan_duration_seconds",
				Help:    "Duration of scheduler passes",
				Buckets: prometheus.DefBuckets,
			},
		),
		dueRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "reminder_due_records",
				Help: "Due records found by the last pass",
			},
		),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_dispatch_outcomes_total",
				Help: "Per-record dispatch outcomes",
			},
			[]string{"outcome"},
		),
		gatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reminder_gateway_send_duration_seconds",
				Help:    "Duration of push gateway calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reminder_gateway_breaker_open",
				Help: "1 when the gateway circuit breaker is open",
			},
			[]string{"name"},
		),
	}

	reg.MustRegister(p.passes, p.passDuration, p.dueRecords, p.outcomes, p.gatewayDuration, p.breakerState)

	return p
}

func (p *Prometheus) PassFinished(d time.Duration, due int, err error) {
	p.passes.WithLabelValues(result(err)).Inc()
	p.passDuration.Observe(d.Seconds())
	if err == nil {
		p.dueRecords.Set(float64(due))
	}
}

func (p *Prometheus) Outcome(o Outcome) {
	p.outcomes.WithLabelValues(string(o)).Inc()
}

func (p *Prometheus) GatewayCall(d time.Duration, err error) {
	p.gatewayDuration.WithLabelValues(result(err)).Observe(d.Seconds())
}

func (p *Prometheus) BreakerState(name, state string) {
	v := 0.0
	if state == "open" {
		v = 1
	}
	p.breakerState.WithLabelValues(name).Set(v)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// HTTP holds the API request collectors.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	h := &HTTP{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reminder_http_request_duration_seconds",
				Help:    "Histogram of response durations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
	}

	reg.MustRegister(h.requests, h.duration)

	return h
}

func (h *HTTP) Observe(path, method, status string, d time.Duration) {
	h.requests.WithLabelValues(path, method, status).Inc()
	h.duration.WithLabelValues(path, method).Observe(d.Seconds())
}
