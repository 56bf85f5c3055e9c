package metrics

import coremetrics "github.com/etna-dt/twinhub/core/metrics"

// MultiSink fans command results out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCommandResult forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordCommandResult(res []coremetrics.CommandResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordCommandResult(res); err != nil {
			return err
		}
	}
	return nil
}
