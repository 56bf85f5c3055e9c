package metrics

import (
	"strconv"

	coremetrics "github.com/etna-dt/twinhub/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records command delivery events in Prometheus metrics.
type PromSink struct {
	events  *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewPromSink registers command metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "command_events_total",
		Help: "Total number of per-device command delivery events",
	}, []string{"device_id", "command", "connected"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "command_latency_seconds",
		Help:    "Time between command send and device response",
		Buckets: prometheus.DefBuckets,
	}, []string{"device_id", "command", "connected"})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{events: events, latency: latency}, nil
}

// RecordCommandResult increments the counter and observes the latency for each
// delivery event.
func (s *PromSink) RecordCommandResult(res []coremetrics.CommandResult) error {
	for _, r := range res {
		connected := strconv.FormatBool(r.Connected)
		s.events.WithLabelValues(r.DeviceID, r.Command, connected).Inc()
		s.latency.WithLabelValues(r.DeviceID, r.Command, connected).Observe(r.Latency.Seconds())
	}
	return nil
}
