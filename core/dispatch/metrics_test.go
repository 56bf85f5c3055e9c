package dispatch

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsRegistration(t *testing.T) {
	ResetMetrics(nil)
	t.Cleanup(func() { ResetMetrics(nil) })
	reg := prometheus.NewRegistry()
	MustRegisterMetrics(reg)
	// touch metrics so they are exported
	devicesNotified.WithLabelValues("cmd_01").Inc()
	commandLatency.WithLabelValues("cmd_01").Observe(0.1)
	connectionRate.WithLabelValues("cmd_01").Set(1)
	notifySuccess.Inc()
	notifyFailure.Inc()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, mf := range mfs {
		names[*mf.Name] = true
	}
	expected := []string{
		"command_dispatch_latency_seconds",
		"devices_notified_total",
		"connection_success_rate",
		"notify_success_total",
		"notify_failure_total",
	}
	for _, n := range expected {
		if !names[n] {
			t.Errorf("metric %s not registered", n)
		}
	}
}
