// Package gateway defines the contract for delivering one command to one edge
// device. Implementations live under infra.
package gateway

import (
	"context"

	"github.com/etna-dt/twinhub/core/model"
)

// Client sends a single command to a single device and normalizes the outcome.
// Send never returns an error: transport failures, timeouts and malformed
// responses are all folded into the returned DeviceOutcome.
type Client interface {
	Send(ctx context.Context, device model.Device, cmd model.Command) model.DeviceOutcome
}
