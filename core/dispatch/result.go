package dispatch

import (
	"fmt"

	"github.com/etna-dt/twinhub/core/model"
)

// FallbackRecordID keys sensor records that carry no identifiable id in the
// sensor status summary. Such records are kept rather than dropped.
const FallbackRecordID = "unknown"

// Result maps every resolved target device to its normalized outcome. The map
// holds exactly one entry per targeted device, even when every call failed.
type Result struct {
	DispatchID string                         `json:"dispatch_id"`
	Command    string                         `json:"command"`
	Outcomes   map[string]model.DeviceOutcome `json:"devices"`
}

// Succeeded reports whether at least one targeted device responded, whatever
// its HTTP status code. An empty result did not succeed.
func (r Result) Succeeded() bool {
	for _, out := range r.Outcomes {
		if out.Succeeded() {
			return true
		}
	}
	return false
}

// Overall returns the dispatch-level status string.
func (r Result) Overall() string {
	if r.Succeeded() {
		return model.StatusSuccess
	}
	return model.StatusError
}

// Validate checks every collected outcome against the DeviceOutcome invariant.
// A violation means a gateway client broke its contract, which is reported as
// a condition distinct from an ordinary per-device failure.
func (r Result) Validate() error {
	for id, out := range r.Outcomes {
		if err := out.Validate(); err != nil {
			return fmt.Errorf("device %s: %w", id, err)
		}
	}
	return nil
}

// ConnectionSummary maps each device id to its connection-level status. The
// HTTP status code is deliberately ignored: an HTTP 500 still proves the
// device is reachable.
func (r Result) ConnectionSummary() map[string]string {
	res := make(map[string]string, len(r.Outcomes))
	for id, out := range r.Outcomes {
		if out.Succeeded() {
			res[id] = model.StatusSuccess
		} else {
			res[id] = model.StatusError
		}
	}
	return res
}

// SensorSummary projects per-sensor record statuses out of the response
// bodies, keyed "<deviceId>:<recordId>". Only success outcomes whose body is a
// structured record with a records list contribute; records without an id are
// keyed with FallbackRecordID.
func (r Result) SensorSummary() map[string]string {
	res := make(map[string]string)
	for deviceID, out := range r.Outcomes {
		if !out.Succeeded() {
			continue
		}
		body, ok := out.Body.(map[string]any)
		if !ok {
			continue
		}
		records, ok := body["records"].([]any)
		if !ok {
			continue
		}
		for _, entry := range records {
			rec, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			id, _ := rec["id"].(string)
			if id == "" {
				id = FallbackRecordID
			}
			status, _ := rec["status"].(string)
			res[deviceID+":"+id] = status
		}
	}
	return res
}
