package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bot's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry
	inbound  *prometheus.CounterVec
	dispatch *prometheus.CounterVec
	render   prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		inbound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rsvp_inbound_events_total",
			Help: "Inbound webhook events by classified intent.",
		}, []string{"intent"}),
		dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rsvp_dispatch_total",
			Help: "Outbound actions by kind and outcome.",
		}, []string{"action", "outcome"}),
		render: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rsvp_ticket_render_seconds",
			Help:    "Time spent rendering and publishing a ticket image.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.inbound, m.dispatch, m.render)
	return m
}

func (m *Metrics) Inbound(intent string) {
	if m == nil {
		return
	}
	m.inbound.WithLabelValues(intent).Inc()
}

func (m *Metrics) Dispatch(action string, ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.dispatch.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) Render(d time.Duration) {
	if m == nil {
		return
	}
	m.render.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
