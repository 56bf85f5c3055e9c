package model

import (
	"errors"
	"fmt"
)

// Connection status values reported per device.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrInvalidOutcome reports an outcome that violates the DeviceOutcome
// invariant. It indicates a contract violation rather than a network problem.
var ErrInvalidOutcome = errors.New("invalid device outcome structure")

// DeviceOutcome is the normalized result of one command delivery attempt.
// Exactly one variant is populated: a success carries the HTTP status code and
// the response body, a failure carries a human-readable error description. Any
// response received from the device counts as a success regardless of its HTTP
// status code; only transport-level problems produce a failure.
type DeviceOutcome struct {
	Status string `json:"status"`
	Code   int    `json:"code,omitempty"`
	Body   any    `json:"body,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewSuccess builds a success outcome from an HTTP status code and a decoded
// or raw response body.
func NewSuccess(code int, body any) DeviceOutcome {
	return DeviceOutcome{Status: StatusSuccess, Code: code, Body: body}
}

// NewFailure builds a failure outcome from an error description.
func NewFailure(desc string) DeviceOutcome {
	return DeviceOutcome{Status: StatusError, Error: desc}
}

// Succeeded reports whether the device responded at the connection level.
func (o DeviceOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// Validate checks the tagged-union invariant.
func (o DeviceOutcome) Validate() error {
	switch o.Status {
	case StatusSuccess:
		if o.Code < 0 {
			return fmt.Errorf("%w: success with negative status code %d", ErrInvalidOutcome, o.Code)
		}
		if o.Body == nil {
			return fmt.Errorf("%w: success without a body", ErrInvalidOutcome)
		}
	case StatusError:
		if o.Error == "" {
			return fmt.Errorf("%w: failure without a description", ErrInvalidOutcome)
		}
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidOutcome, o.Status)
	}
	return nil
}
