package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `notify:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  topic_prefix: "solgrid"
metrics:
  prometheus_enabled: true
  prometheus_port: "9102"
audit:
  backend: "jsonl"
  path: "trail.log"
allocation:
  default_mode: "EQUITABLE"
  default_weights:
    capacity: 0.3
    reliability: 0.3
    cost_band: 0.2
    distance: 0.1
    sla_history: 0.1
bidding:
  max_timeline_days: 45
escrow:
  split:
    milestones:
      - name: "Kickoff"
        percent: 50
      - name: "Handover"
        percent: 50
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"broker", cfg.Notify.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.Notify.ClientID, "cli"},
		{"topic_prefix", cfg.Notify.TopicPrefix, "solgrid"},
		{"prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"prometheus_port", cfg.Metrics.PrometheusPort, "9102"},
		{"audit_backend", cfg.Audit.Backend, "jsonl"},
		{"audit_path", cfg.Audit.Path, "trail.log"},
		{"default_mode", cfg.Allocation.DefaultMode, "EQUITABLE"},
		{"weights.capacity", cfg.Allocation.DefaultWeights.Capacity, 0.3},
		{"max_timeline_days", cfg.Bidding.MaxTimelineDays, 45},
		{"split_len", len(cfg.Escrow.Split.Milestones), 2},
		{"split_name", cfg.Escrow.Split.Milestones[0].Name, "Kickoff"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Audit.Backend != "jsonl" || cfg.Audit.Path != "audit.log" {
		t.Errorf("audit defaults not applied: %+v", cfg.Audit)
	}
	if cfg.Allocation.DefaultMode != "GOV_OPTIMIZED" {
		t.Errorf("mode default not applied: %s", cfg.Allocation.DefaultMode)
	}
	if cfg.Bidding.MaxTimelineDays != 30 || cfg.Bidding.MinWarrantyMonths != 12 {
		t.Errorf("bidding defaults not applied: %+v", cfg.Bidding)
	}
	if len(cfg.Escrow.Split.Milestones) != 4 {
		t.Errorf("split default not applied: %+v", cfg.Escrow.Split)
	}
	if cfg.Metrics.PrometheusPort != "9090" {
		t.Errorf("metrics default not applied: %+v", cfg.Metrics)
	}
}

func TestLoadBadSplit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `escrow:
  split:
    milestones:
      - name: "Kickoff"
        percent: 60
      - name: "Handover"
        percent: 50
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected split validation error")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("expected format error")
	}
}
