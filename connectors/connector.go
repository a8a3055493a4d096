// Package connectors holds the clients for external settlement
// providers.
package connectors

import "github.com/solgrid/fieldmatch/core/marketplace"

// GatewayClient is implemented by every settlement provider client.
type GatewayClient interface {
	marketplace.SettlementGateway
}

// Option configures a provider client before use.
type Option func(GatewayClient) error

// ErrIncompatibleOption is the format used when an option is applied to
// the wrong client type.
const ErrIncompatibleOption = "option %s is not compatible with client %s"
