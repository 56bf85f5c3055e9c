package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/etna-dt/twinhub/core/events"
	"github.com/etna-dt/twinhub/core/gateway"
	"github.com/etna-dt/twinhub/core/logger"
	"github.com/etna-dt/twinhub/core/metrics"
	"github.com/etna-dt/twinhub/core/model"
	"github.com/etna-dt/twinhub/core/registry"
	"github.com/etna-dt/twinhub/internal/eventbus"
)

// Manager resolves dispatch targets, fans a command out to every target
// concurrently and reduces the per-device outcomes into one Result. Each
// dispatch is single-shot: no retries, no persistent state.
type Manager struct {
	registry *registry.Registry
	client   gateway.Client
	timeout  time.Duration
	logger   logger.Logger
	metrics  metrics.Sink
	bus      eventbus.EventBus
}

// NewManager creates a new manager. timeout bounds each per-device call; if it
// is zero, a default of ten seconds is used. sink and bus may be nil.
func NewManager(reg *registry.Registry, client gateway.Client, timeout time.Duration, sink metrics.Sink, bus eventbus.EventBus, log logger.Logger) (*Manager, error) {
	if reg == nil || client == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewManager")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Manager{
		registry: reg,
		client:   client,
		timeout:  timeout,
		logger:   log,
		metrics:  sink,
		bus:      bus,
	}, nil
}

// Dispatch runs the dispatch process: validate, resolve targets, fan out,
// collect, validate outcome shapes. Per-device errors never abort siblings and
// never escape as a returned error; only a malformed request or an outcome
// violating the DeviceOutcome invariant produces a non-nil error. The returned
// Result is complete in both cases.
func (m *Manager) Dispatch(ctx context.Context, req model.DispatchRequest) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	targets := m.registry.Resolve(req.DeviceIDs)
	res := Result{
		DispatchID: uuid.NewString(),
		Command:    req.Command,
		Outcomes:   make(map[string]model.DeviceOutcome, len(targets)),
	}
	m.logger.Infof("dispatching %s to %d devices", req.Command, len(targets))
	if m.bus != nil {
		ids := make([]string, 0, len(targets))
		for _, d := range targets {
			ids = append(ids, d.ID)
		}
		m.bus.Publish(events.DispatchEvent{
			DispatchID: res.DispatchID,
			Command:    req.Command,
			Sensors:    req.Sensors,
			Targets:    ids,
			Time:       time.Now(),
		})
	}
	if len(targets) == 0 {
		return res, nil
	}

	recs := m.fanOut(ctx, &res, req, targets)
	if err := m.metrics.RecordCommandResult(recs); err != nil {
		m.logger.Errorf("metrics error: %v", err)
	}

	if err := res.Validate(); err != nil {
		m.logger.Errorf("dispatch %s: %v", res.DispatchID, err)
		return res, err
	}
	return res, nil
}

// fanOut issues one notify call per target concurrently and blocks until every
// call has completed. Each worker owns its outcome until it is handed to the
// shared map under the mutex, so no two writes race on the same key.
func (m *Manager) fanOut(ctx context.Context, res *Result, req model.DispatchRequest, targets []model.Device) []metrics.CommandResult {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		recs      []metrics.CommandResult
		connected int
	)
	update := func(id string, out model.DeviceOutcome, dur time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		res.Outcomes[id] = out
		devicesNotified.WithLabelValues(req.Command).Inc()
		commandLatency.WithLabelValues(req.Command).Observe(dur.Seconds())
		if out.Succeeded() {
			notifySuccess.Inc()
			connected++
		} else {
			notifyFailure.Inc()
		}
		if m.bus != nil {
			m.bus.Publish(events.OutcomeEvent{
				DispatchID: res.DispatchID,
				DeviceID:   id,
				Command:    req.Command,
				Outcome:    out,
				Latency:    dur,
			})
		}
		recs = append(recs, metrics.CommandResult{
			DispatchID: res.DispatchID,
			DeviceID:   id,
			Command:    req.Command,
			Connected:  out.Succeeded(),
			Code:       out.Code,
			Latency:    dur,
			Time:       time.Now(),
		})
	}

	cmd := model.Command{Name: req.Command, Sensors: req.Sensors}
	for _, target := range targets {
		wg.Add(1)
		go func(dev model.Device) {
			defer wg.Done()
			start := time.Now()
			defer func() {
				// A misbehaving client must surface as a per-device
				// failure, not take down the dispatch.
				if r := recover(); r != nil {
					update(dev.ID, model.NewFailure(fmt.Sprintf("dispatch worker: %v", r)), time.Since(start))
				}
			}()
			callCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()
			out := m.client.Send(callCtx, dev, cmd)
			update(dev.ID, out, time.Since(start))
		}(target)
	}
	wg.Wait()

	connectionRate.WithLabelValues(req.Command).Set(float64(connected) / float64(len(targets)))
	return recs
}
