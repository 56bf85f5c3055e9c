// Package events defines the events published on the internal bus during a
// dispatch. Subscribers must not block; delivery is best effort.
package events

import (
	"time"

	"github.com/etna-dt/twinhub/core/model"
)

// DispatchEvent is published when a fan-out starts, after target resolution.
type DispatchEvent struct {
	DispatchID string
	Command    string
	Sensors    []string
	Targets    []string
	Time       time.Time
}

// OutcomeEvent is published once per device when its delivery completes.
type OutcomeEvent struct {
	DispatchID string
	DeviceID   string
	Command    string
	Outcome    model.DeviceOutcome
	Latency    time.Duration
}
