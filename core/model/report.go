package model

// SensorRecord is one per-sensor entry in a device report. Only the id and
// status fields are consumed by the dispatcher; everything else is carried for
// callers that want the full report.
type SensorRecord struct {
	Status    string   `json:"status"`
	Type      string   `json:"type,omitempty"`
	ID        string   `json:"id"`
	Value     *float64 `json:"value"`
	Message   string   `json:"message,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// DeviceReport is the response shape devices are expected to return from their
// notify endpoint. The shape is tolerated, not enforced: a device may answer
// with any JSON or plain text and the outcome is still a success.
type DeviceReport struct {
	TimeStamp string         `json:"time_stamp"`
	Records   []SensorRecord `json:"records"`
}
