package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/solgrid/fieldmatch/core/metrics"
	"github.com/solgrid/fieldmatch/infra/logger"
)

// InfluxSink writes marketplace events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	base := strings.TrimSuffix(cfg.InfluxURL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAllocation writes the allocation decisions as line protocol events.
func (s *InfluxSink) RecordAllocation(recs []coremetrics.AllocationRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range recs {
		p := write.NewPointWithMeasurement("allocation_event").
			AddTag("job_id", r.JobID).
			AddTag("installer_id", r.InstallerID).
			AddTag("mode", r.Mode).
			AddTag("forced", strconv.FormatBool(r.Forced)).
			AddTag("component", "marketplace_manager").
			AddField("score", round3(r.Score)).
			AddField("alternates", r.Alternates).
			SetTime(r.DecidedAt)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordAward writes the award as a line protocol event.
func (s *InfluxSink) RecordAward(rec coremetrics.AwardRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("award_event").
		AddTag("job_id", rec.JobID).
		AddTag("installer_id", rec.InstallerID).
		AddTag("bid_id", rec.BidID).
		AddTag("component", "marketplace_manager").
		AddField("price", round3(rec.Price)).
		AddField("score", round3(rec.Score)).
		AddField("bid_count", rec.BidCount).
		SetTime(rec.AwardedAt)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordEscrow writes the ledger movement as a line protocol event.
func (s *InfluxSink) RecordEscrow(rec coremetrics.EscrowRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("escrow_event").
		AddTag("payment_id", rec.PaymentID).
		AddTag("job_id", rec.JobID).
		AddTag("action", rec.Action).
		AddTag("status", rec.Status).
		AddTag("component", "escrow_ledger").
		AddField("amount", round3(rec.Amount)).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
