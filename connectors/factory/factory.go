package factory

import (
	"fmt"

	"github.com/solgrid/fieldmatch/auth"
	"github.com/solgrid/fieldmatch/connectors"
	"github.com/solgrid/fieldmatch/connectors/clients/settlement"
)

const (
	IDSettlement = "settlement"
)

var errUnknownClient = "unknown connector id: %s"

// NewGatewayClient builds the provider client identified by id.
func NewGatewayClient(id, baseURL string, cred *auth.ClientCred) (connectors.GatewayClient, error) {
	switch id {
	case IDSettlement:
		return settlement.New(baseURL, cred)
	default:
		return nil, fmt.Errorf(errUnknownClient, id)
	}
}
