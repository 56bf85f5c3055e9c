package metrics

import "time"

// CommandResult represents a per-device command delivery event to be recorded.
type CommandResult struct {
	DispatchID string
	DeviceID   string
	Command    string
	Connected  bool
	Code       int
	Latency    time.Duration
	Time       time.Time
}

// Sink records command results for observability purposes.
type Sink interface {
	RecordCommandResult(results []CommandResult) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordCommandResult([]CommandResult) error { return nil }
