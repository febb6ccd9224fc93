package providers

import (
	"context"

	"github.com/qrdine/qrdine-backend/pkg/enums"
)

// Bank is a settlement institution reachable through a payment provider in a
// given country. Discovery probes use the list as a liveness signal.
type Bank struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Country string `json:"country"`
}

// BankLister is the probe surface every payment provider client exposes.
// Country is an ISO-3166 alpha-2 code; the client owns any translation the
// provider's API needs.
type BankLister interface {
	ListBanks(ctx context.Context, country string) ([]Bank, error)
}

// Registry maps providers to their live clients. Providers without a client
// (card-only processors with no bank directory) are simply absent.
type Registry map[enums.PaymentProvider]BankLister

// Lister returns the client registered for the provider, if any.
func (r Registry) Lister(provider enums.PaymentProvider) (BankLister, bool) {
	lister, ok := r[provider]
	return lister, ok
}
