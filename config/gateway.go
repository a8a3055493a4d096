package config

import (
	"fmt"

	"github.com/solgrid/fieldmatch/auth"
)

// GatewayConfig defines the external settlement gateway connection.
type GatewayConfig struct {
	Enabled  bool      `json:"enabled"`
	Provider string    `json:"provider"`
	BaseURL  string    `json:"base_url"`
	Auth     auth.Conf `json:"auth"`
}

// SetDefaults applies sane defaults.
func (c *GatewayConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = "settlement"
	}
}

// Validate checks mandatory fields when the gateway is enabled.
func (c GatewayConfig) Validate() error {
	if c.Enabled && c.BaseURL == "" {
		return fmt.Errorf("gateway base_url is required")
	}
	return nil
}
