package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandLatency  *prometheus.HistogramVec
	devicesNotified *prometheus.CounterVec
	connectionRate  *prometheus.GaugeVec
	notifySuccess   prometheus.Counter
	notifyFailure   prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.HistogramVec, *prometheus.CounterVec, *prometheus.GaugeVec, prometheus.Counter, prometheus.Counter) {
	lat := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_dispatch_latency_seconds",
			Help:    "Latency of notify calls from send to device response",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	dev := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devices_notified_total",
			Help: "Number of devices a command was dispatched to",
		},
		[]string{"command"},
	)
	conn := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "connection_success_rate",
			Help: "Fraction of targeted devices that responded during the last dispatch",
		},
		[]string{"command"},
	)
	suc := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_success_total",
			Help: "Number of notify calls that received a device response",
		},
	)
	fail := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_failure_total",
			Help: "Number of notify calls that failed at the transport level",
		},
	)
	return lat, dev, conn, suc, fail
}

func init() {
	commandLatency, devicesNotified, connectionRate, notifySuccess, notifyFailure = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(commandLatency, devicesNotified, connectionRate, notifySuccess, notifyFailure)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	commandLatency, devicesNotified, connectionRate, notifySuccess, notifyFailure = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
