// Package app assembles the marketplace service from its configuration.
package app

import (
	"context"
	"fmt"

	"github.com/solgrid/fieldmatch/app/plugins"
	"github.com/solgrid/fieldmatch/auth"
	"github.com/solgrid/fieldmatch/config"
	"github.com/solgrid/fieldmatch/connectors/factory"
	"github.com/solgrid/fieldmatch/core/allocation"
	"github.com/solgrid/fieldmatch/core/audit"
	"github.com/solgrid/fieldmatch/core/auction"
	"github.com/solgrid/fieldmatch/core/escrow"
	"github.com/solgrid/fieldmatch/core/marketplace"
	coremetrics "github.com/solgrid/fieldmatch/core/metrics"
	corenotify "github.com/solgrid/fieldmatch/core/notify"
	"github.com/solgrid/fieldmatch/infra/logger"
	"github.com/solgrid/fieldmatch/infra/metrics"
	"github.com/solgrid/fieldmatch/infra/notify"
	"github.com/solgrid/fieldmatch/internal/eventbus"
)

// Service orchestrates the marketplace manager and its sinks.
type Service struct {
	Manager     *marketplace.Manager
	bus         eventbus.EventBus
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var notifier corenotify.Notifier = corenotify.NopNotifier{}
	if cfg.Notify.Broker != "" {
		n, err := notify.NewPahoNotifier(cfg.Notify)
		if err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		notifier = n
	}

	var sinks []coremetrics.MetricsSink
	promEnabled := cfg.Metrics.PrometheusEnabled
	promPort := cfg.Metrics.PrometheusPort
	if promEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	storeFactory, ok := plugins.AuditStores[cfg.Audit.Backend]
	if !ok {
		return nil, fmt.Errorf("unknown audit backend %s", cfg.Audit.Backend)
	}
	auditStore, err := storeFactory(cfg.Audit.Backend, map[string]any{"path": cfg.Audit.Path})
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}

	policy, err := allocation.NewPolicy(cfg.Allocation.DefaultWeights)
	if err != nil {
		return nil, fmt.Errorf("weight policy: %w", err)
	}
	scorer, err := auction.NewScorer(cfg.Bidding)
	if err != nil {
		return nil, fmt.Errorf("bid scorer: %w", err)
	}

	bus := eventbus.New()
	manager, err := marketplace.NewManager(
		marketplace.NewDirectory(),
		allocation.NewEngine(policy, logg),
		auction.NewLifecycle(auction.NewMemoryStore(), scorer, logg),
		escrow.NewLedger(escrow.NewMemoryStore(), logg),
		notifier,
		auditStore,
		sink,
		bus,
		logg,
	)
	if err != nil {
		return nil, fmt.Errorf("marketplace manager: %w", err)
	}
	manager.SetDefaultSplit(cfg.Escrow.Split)
	if cfg.Gateway.Enabled {
		cred := auth.NewClientCred(cfg.Gateway.Auth)
		gw, err := factory.NewGatewayClient(cfg.Gateway.Provider, cfg.Gateway.BaseURL, cred)
		if err != nil {
			return nil, fmt.Errorf("settlement gateway: %w", err)
		}
		manager.SetGateway(gw)
	}

	return &Service{
		Manager:     manager,
		bus:         bus,
		log:         logg,
		promEnabled: promEnabled,
		promPort:    promPort,
	}, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go s.logEvents(ctx)
	<-ctx.Done()
	return nil
}

// logEvents drains the bus and logs every marketplace event.
func (s *Service) logEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return
			}
			s.log.Debugw("event", map[string]any{"event": fmt.Sprintf("%+v", ev)})
		case <-ctx.Done():
			return
		}
	}
}

// AuditTrail exposes the audit query surface.
func (s *Service) AuditTrail(ctx context.Context, q audit.Query) ([]audit.Entry, error) {
	return s.Manager.AuditTrail(ctx, q)
}

// Close releases resources held by the service.
func (s *Service) Close() error { return s.Manager.Close() }
