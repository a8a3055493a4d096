package plugins

import (
	"github.com/solgrid/fieldmatch/core/audit"
	coremetrics "github.com/solgrid/fieldmatch/core/metrics"
	corenotify "github.com/solgrid/fieldmatch/core/notify"
)

// MetricsFactory builds a metrics sink from raw config.
type MetricsFactory func(name string, conf map[string]any) (coremetrics.MetricsSink, error)

// AuditStoreFactory builds an audit trail store from raw config.
type AuditStoreFactory func(name string, conf map[string]any) (audit.Store, error)

// NotifierFactory builds an installer notifier from raw config.
type NotifierFactory func(name string, conf map[string]any) (corenotify.Notifier, error)

var (
	MetricsExporters = map[string]MetricsFactory{}
	AuditStores      = map[string]AuditStoreFactory{}
	Notifiers        = map[string]NotifierFactory{}
)

func RegisterMetrics(name string, f MetricsFactory)       { MetricsExporters[name] = f }
func RegisterAuditStore(name string, f AuditStoreFactory) { AuditStores[name] = f }
func RegisterNotifier(name string, f NotifierFactory)     { Notifiers[name] = f }
