package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the demo server's Prometheus collectors.
type Metrics struct {
	requests      *prometheus.CounterVec
	lockdowns     *prometheus.CounterVec
	lockdownState prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perimeter_http_requests_total",
			Help: "Demo server requests by route and status code.",
		}, []string{"route", "code"}),
		lockdowns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perimeter_lockdown_commands_total",
			Help: "Lockdown commands received by requested state.",
		}, []string{"state"}),
		lockdownState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "perimeter_lockdown_locked",
			Help: "1 while the facility is locked down, 0 while armed.",
		}),
	}
	reg.MustRegister(m.requests, m.lockdowns, m.lockdownState)
	return m
}
