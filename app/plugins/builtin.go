package plugins

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/solgrid/fieldmatch/core/audit"
	coremetrics "github.com/solgrid/fieldmatch/core/metrics"
	corenotify "github.com/solgrid/fieldmatch/core/notify"
	inframetrics "github.com/solgrid/fieldmatch/infra/metrics"
	infranotify "github.com/solgrid/fieldmatch/infra/notify"
)

func init() {
	RegisterMetrics("prometheus", func(name string, conf map[string]any) (coremetrics.MetricsSink, error) {
		var mc coremetrics.Config
		if err := mapstructure.Decode(conf, &mc); err != nil {
			return nil, err
		}
		return inframetrics.NewPromSink(mc)
	})
	RegisterMetrics("influx", func(name string, conf map[string]any) (coremetrics.MetricsSink, error) {
		var mc coremetrics.Config
		if err := mapstructure.Decode(conf, &mc); err != nil {
			return nil, err
		}
		return inframetrics.NewInfluxSinkWithFallback(mc), nil
	})
	RegisterMetrics("nop", func(name string, _ map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	RegisterAuditStore("jsonl", func(name string, conf map[string]any) (audit.Store, error) {
		var c struct {
			Path string `mapstructure:"path"`
		}
		if err := mapstructure.Decode(conf, &c); err != nil {
			return nil, err
		}
		return audit.NewJSONLStore(c.Path)
	})
	RegisterAuditStore("memory", func(name string, _ map[string]any) (audit.Store, error) {
		return audit.NewMemoryStore(), nil
	})

	RegisterNotifier("mqtt", func(name string, conf map[string]any) (corenotify.Notifier, error) {
		var nc infranotify.Config
		if err := mapstructure.Decode(conf, &nc); err != nil {
			return nil, err
		}
		return infranotify.NewPahoNotifier(nc)
	})
	RegisterNotifier("nop", func(name string, _ map[string]any) (corenotify.Notifier, error) {
		return corenotify.NopNotifier{}, nil
	})
}
