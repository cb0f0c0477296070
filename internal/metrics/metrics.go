// Package metrics exposes storefront counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the set of measurements services report
type Recorder interface {
	RecordLogin(outcome string)
	RecordOrderSubmitted()
	RecordOrderRejected(reason string)
	RecordOrderResolved(status string, latency time.Duration)
	RecordProfileLookup(outcome string)
}

// Login outcomes
const (
	LoginSuccess    = "success"
	LoginFailure    = "failure"
	LoginSuperseded = "superseded"
)

// Collector implements Recorder on top of Prometheus collectors
type Collector struct {
	logins          *prometheus.CounterVec
	ordersSubmitted prometheus.Counter
	ordersRejected  *prometheus.CounterVec
	ordersResolved  *prometheus.CounterVec
	fulfillment     prometheus.Histogram
	profileLookups  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rustdonate_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		ordersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rustdonate_orders_submitted_total",
			Help: "Orders accepted into the ledger",
		}),
		ordersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rustdonate_orders_rejected_total",
			Help: "Order submissions rejected by validation",
		}, []string{"reason"}),
		ordersResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rustdonate_orders_resolved_total",
			Help: "Orders that reached a terminal status",
		}, []string{"status"}),
		fulfillment: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rustdonate_fulfillment_latency_seconds",
			Help:    "Time from submission to terminal status",
			Buckets: []float64{0.5, 1, 2, 3, 5, 10, 30},
		}),
		profileLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rustdonate_steam_profile_lookups_total",
			Help: "Steam profile lookups served by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.logins,
		c.ordersSubmitted,
		c.ordersRejected,
		c.ordersResolved,
		c.fulfillment,
		c.profileLookups,
	)

	return c
}

// Ensure Collector implements Recorder
var _ Recorder = (*Collector)(nil)

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordOrderSubmitted() {
	c.ordersSubmitted.Inc()
}

func (c *Collector) RecordOrderRejected(reason string) {
	c.ordersRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordOrderResolved(status string, latency time.Duration) {
	c.ordersResolved.WithLabelValues(status).Inc()
	c.fulfillment.Observe(latency.Seconds())
}

func (c *Collector) RecordProfileLookup(outcome string) {
	c.profileLookups.WithLabelValues(outcome).Inc()
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop discards all measurements
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordLogin(string) {}
func (Nop) RecordOrderSubmitted() {}
func (Nop) RecordOrderRejected(string) {}
func (Nop) RecordOrderResolved(string, time.Duration) {}
func (Nop) RecordProfileLookup(string) {}
