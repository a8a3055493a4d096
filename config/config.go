package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/solgrid/fieldmatch/core/auction"
	"github.com/solgrid/fieldmatch/core/metrics"
	"github.com/solgrid/fieldmatch/infra/notify"
)

type Config struct {
	Notify     notify.Config        `json:"notify"`
	Metrics    metrics.Config       `json:"metrics"`
	Audit      AuditConfig          `json:"audit"`
	Allocation AllocationConfig     `json:"allocation"`
	Bidding    auction.ScorerConfig `json:"bidding"`
	Escrow     EscrowConfig         `json:"escrow"`
	Gateway    GatewayConfig        `json:"gateway"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("FM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fm_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Notify.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Audit.SetDefaults()
	cfg.Allocation.SetDefaults()
	cfg.Bidding.SetDefaults()
	cfg.Escrow.SetDefaults()
	cfg.Gateway.SetDefaults()
	if err := cfg.Audit.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Allocation.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Bidding.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Escrow.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Gateway.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
