package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etna-dt/twinhub/core/model"
	"github.com/etna-dt/twinhub/core/registry"
	"github.com/etna-dt/twinhub/infra/gateway"
	"github.com/etna-dt/twinhub/infra/logger"
)

func testRegistry(t *testing.T, n int) *registry.Registry {
	t.Helper()
	devs := []model.Device{
		{ID: "device_01", URL: "http://192.168.1.10:5000"},
		{ID: "device_02", URL: "http://192.168.1.11:5001"},
		{ID: "device_03", URL: "http://192.168.1.12:5002"},
		{ID: "device_04", URL: "http://192.168.1.13:5003"},
	}
	reg, err := registry.New(devs[:n])
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func newTestManager(t *testing.T, reg *registry.Registry, client *gateway.MockClient) *Manager {
	t.Helper()
	mgr, err := NewManager(reg, client, time.Second, nil, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return mgr
}

func TestNewManagerNilChecks(t *testing.T) {
	if _, err := NewManager(nil, gateway.NewMockClient(), time.Second, nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil registry")
	}
	if _, err := NewManager(testRegistry(t, 1), nil, time.Second, nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestDispatchRejectsEmptyCommand(t *testing.T) {
	client := gateway.NewMockClient()
	mgr := newTestManager(t, testRegistry(t, 2), client)
	_, err := mgr.Dispatch(context.Background(), model.DispatchRequest{})
	if !errors.Is(err, model.ErrEmptyCommand) {
		t.Fatalf("expected ErrEmptyCommand, got %v", err)
	}
	if client.SentCount() != 0 {
		t.Fatalf("no network call may happen before validation, got %d", client.SentCount())
	}
}

func TestDispatchTargetsAllDevicesByDefault(t *testing.T) {
	client := gateway.NewMockClient()
	mgr := newTestManager(t, testRegistry(t, 4), client)
	res, err := mgr.Dispatch(context.Background(), model.DispatchRequest{Command: "cmd_01"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(res.Outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(res.Outcomes))
	}
	for _, id := range []string{"device_01", "device_02", "device_03", "device_04"} {
		if _, ok := res.Outcomes[id]; !ok {
			t.Errorf("missing outcome for %s", id)
		}
	}
	if res.DispatchID == "" {
		t.Fatalf("dispatch id missing")
	}
}

func TestDispatchDropsUnknownDeviceIDs(t *testing.T) {
	client := gateway.NewMockClient()
	mgr := newTestManager(t, testRegistry(t, 2), client)
	res, err := mgr.Dispatch(context.Background(), model.DispatchRequest{
		Command:   "cmd_01",
		DeviceIDs: []string{"device_02", "device_99"},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(res.Outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(res.Outcomes))
	}
	if _, ok := res.Outcomes["device_99"]; ok {
		t.Fatalf("unknown device must not appear in the result")
	}
}

func TestDispatchEmptyTargetSetDoesNotHang(t *testing.T) {
	client := gateway.NewMockClient()
	mgr := newTestManager(t, testRegistry(t, 2), client)
	done := make(chan struct{})
	var res Result
	go func() {
		res, _ = mgr.Dispatch(context.Background(), model.DispatchRequest{
			Command:   "cmd_01",
			DeviceIDs: []string{"device_99"},
		})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatch with empty target set hung")
	}
	if len(res.Outcomes) != 0 {
		t.Fatalf("expected empty result, got %v", res.Outcomes)
	}
	if res.Succeeded() {
		t.Fatalf("empty dispatch is not a success")
	}
}

func TestDispatchPartialFailureIsOverallSuccess(t *testing.T) {
	client := gateway.NewMockClient()
	client.SetOutcome("device_02", model.NewFailure("connection refused"))
	client.SetOutcome("device_03", model.NewFailure("context deadline exceeded"))
	mgr := newTestManager(t, testRegistry(t, 3), client)

	res, err := mgr.Dispatch(context.Background(), model.DispatchRequest{Command: "cmd_01"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(res.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(res.Outcomes))
	}
	if res.Overall() != model.StatusSuccess {
		t.Fatalf("one success must make the dispatch a success, got %s", res.Overall())
	}
}

func TestDispatchAllFailedIsOverallError(t *testing.T) {
	client := gateway.NewMockClient()
	client.SetOutcome("device_01", model.NewFailure("connection refused"))
	client.SetOutcome("device_02", model.NewFailure("no route to host"))
	mgr := newTestManager(t, testRegistry(t, 2), client)

	res, err := mgr.Dispatch(context.Background(), model.DispatchRequest{Command: "cmd_01"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Overall() != model.StatusError {
		t.Fatalf("expected overall error, got %s", res.Overall())
	}
	for id, out := range res.Outcomes {
		if out.Succeeded() {
			t.Errorf("device %s should have failed", id)
		}
		if out.Error == "" {
			t.Errorf("device %s failure lacks a description", id)
		}
	}
}

func TestDispatchThreeOfFourScenario(t *testing.T) {
	client := gateway.NewMockClient()
	client.SetOutcome("device_04", model.NewFailure("context deadline exceeded"))
	mgr := newTestManager(t, testRegistry(t, 4), client)

	res, err := mgr.Dispatch(context.Background(), model.DispatchRequest{Command: "cmd_01", Sensors: []string{"t1"}})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Overall() != model.StatusSuccess {
		t.Fatalf("expected overall success, got %s", res.Overall())
	}
	if len(res.Outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(res.Outcomes))
	}
	conn := res.ConnectionSummary()
	errCount := 0
	for _, st := range conn {
		if st == model.StatusError {
			errCount++
		}
	}
	if errCount != 1 {
		t.Fatalf("expected exactly 1 connection error, got %d (%v)", errCount, conn)
	}
}

type panicClient struct{}

func (panicClient) Send(context.Context, model.Device, model.Command) model.DeviceOutcome {
	panic("device driver bug")
}

func TestDispatchCapturesWorkerPanic(t *testing.T) {
	mgr, err := NewManager(testRegistry(t, 2), panicClient{}, time.Second, nil, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	res, err := mgr.Dispatch(context.Background(), model.DispatchRequest{Command: "cmd_01"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(res.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(res.Outcomes))
	}
	for id, out := range res.Outcomes {
		if out.Succeeded() || out.Error == "" {
			t.Errorf("device %s: expected described failure, got %+v", id, out)
		}
	}
}

type malformedClient struct{}

func (malformedClient) Send(context.Context, model.Device, model.Command) model.DeviceOutcome {
	return model.DeviceOutcome{Status: model.StatusSuccess, Code: 200} // no body
}

func TestDispatchReportsInvalidOutcomeShape(t *testing.T) {
	mgr, err := NewManager(testRegistry(t, 1), malformedClient{}, time.Second, nil, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	res, err := mgr.Dispatch(context.Background(), model.DispatchRequest{Command: "cmd_01"})
	if !errors.Is(err, model.ErrInvalidOutcome) {
		t.Fatalf("expected ErrInvalidOutcome, got %v", err)
	}
	if len(res.Outcomes) != 1 {
		t.Fatalf("result must still carry the collected outcomes")
	}
}

func TestDispatchForwardsSensorFilter(t *testing.T) {
	client := gateway.NewMockClient()
	mgr := newTestManager(t, testRegistry(t, 1), client)
	_, err := mgr.Dispatch(context.Background(), model.DispatchRequest{Command: "cmd_01", Sensors: []string{"t1", "aq1"}})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if client.SentCount() != 1 {
		t.Fatalf("expected 1 delivery, got %d", client.SentCount())
	}
	sent := client.Sent[0]
	if sent.Command != "cmd_01" || len(sent.Sensors) != 2 {
		t.Fatalf("command not forwarded intact: %+v", sent)
	}
}
