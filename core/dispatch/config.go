package dispatch

import "time"

// Config defines dispatch-related settings.
type Config struct {
	// TimeoutSeconds bounds each per-device notify call.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// Timeout returns the per-device call timeout, defaulting to ten seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
