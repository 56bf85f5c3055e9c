package model

import (
	"errors"
	"fmt"
)

// ErrEmptyCommand is returned when a dispatch request carries no command identifier.
var ErrEmptyCommand = errors.New("command identifier is required")

// Command is an opaque instruction addressed to one or more devices. Sensors
// optionally narrows the command to specific sensor ids; a nil or empty list
// means the command applies to every sensor on the device and both forms
// serialize identically on the wire.
type Command struct {
	Name    string   `json:"command"`
	Sensors []string `json:"sensors"`
}

// DispatchRequest describes one fan-out operation: a command, an optional
// sensor filter and an optional explicit device subset. A nil DeviceIDs targets
// every registered device.
type DispatchRequest struct {
	Command   string   `json:"command"`
	Sensors   []string `json:"sensors,omitempty"`
	DeviceIDs []string `json:"device_ids,omitempty"`
}

// Validate rejects malformed requests before any network call is made.
func (r DispatchRequest) Validate() error {
	if r.Command == "" {
		return ErrEmptyCommand
	}
	for _, id := range r.DeviceIDs {
		if id == "" {
			return fmt.Errorf("blank device id in target list")
		}
	}
	return nil
}
