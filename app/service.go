package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/etna-dt/twinhub/api/operator"
	"github.com/etna-dt/twinhub/config"
	"github.com/etna-dt/twinhub/core/dispatch"
	coremetrics "github.com/etna-dt/twinhub/core/metrics"
	"github.com/etna-dt/twinhub/core/registry"
	infragateway "github.com/etna-dt/twinhub/infra/gateway"
	"github.com/etna-dt/twinhub/infra/logger"
	"github.com/etna-dt/twinhub/infra/metrics"
	"github.com/etna-dt/twinhub/internal/eventbus"
)

// Service orchestrates the dispatch manager and the operator HTTP API.
type Service struct {
	Manager     *dispatch.Manager
	Registry    *registry.Registry
	bus         *eventbus.Bus
	log         logger.Logger
	httpAddr    string
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("device registry: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.Sink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	client := infragateway.NewHTTPClient(cfg.Dispatch.Timeout(), logger.New("gateway-client"))
	manager, err := dispatch.NewManager(reg, client, cfg.Dispatch.Timeout(), sink, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("dispatch manager: %w", err)
	}

	return &Service{
		Manager:     manager,
		Registry:    reg,
		bus:         bus,
		log:         logg,
		httpAddr:    cfg.HTTP.Addr,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run starts the operator API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	mux := operator.NewMux(s.Manager, s.Registry, logger.New("operator-api"))
	srv := &http.Server{Addr: s.httpAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
	}()
	s.log.Infof("operator API listening on %s", s.httpAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
