package gateway

import (
	"context"
	"sync"

	"github.com/etna-dt/twinhub/core/model"
)

// SentCommand records one delivery attempt observed by the mock.
type SentCommand struct {
	DeviceID string
	Command  string
	Sensors  []string
}

// MockClient is a simple gateway client used in tests. Outcomes maps device
// ids to the outcome the mock should return; devices without an entry get a
// generic success.
type MockClient struct {
	mu       sync.Mutex
	Outcomes map[string]model.DeviceOutcome
	Sent     []SentCommand
}

// NewMockClient creates a new MockClient.
func NewMockClient() *MockClient {
	return &MockClient{Outcomes: make(map[string]model.DeviceOutcome)}
}

// SetOutcome configures the outcome returned for the given device id.
func (m *MockClient) SetOutcome(deviceID string, out model.DeviceOutcome) {
	m.mu.Lock()
	m.Outcomes[deviceID] = out
	m.mu.Unlock()
}

// Send records the delivery and returns the configured outcome.
func (m *MockClient) Send(_ context.Context, device model.Device, cmd model.Command) model.DeviceOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentCommand{DeviceID: device.ID, Command: cmd.Name, Sensors: cmd.Sensors})
	if out, ok := m.Outcomes[device.ID]; ok {
		return out
	}
	return model.NewSuccess(200, map[string]any{"time_stamp": "", "records": []any{}})
}

// SentCount returns the number of deliveries observed so far.
func (m *MockClient) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
