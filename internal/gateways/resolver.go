package gateways

import (
	"context"
	"fmt"

	"github.com/qrdine/qrdine-backend/internal/settings"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	"github.com/qrdine/qrdine-backend/pkg/logger"
)

// Eligibility reasons, reported from the first failing check.
const (
	ReasonProviderDisabled     = "provider disabled"
	ReasonCountryNotSupported  = "country not supported"
	ReasonCurrencyNotSupported = "currency not supported"
)

// ConfigSource supplies the administrator configuration for a provider. It is
// satisfied by the settings service.
type ConfigSource interface {
	GatewayConfig(ctx context.Context, provider enums.PaymentProvider) (settings.GatewayConfig, error)
}

// ProviderEligibility is the full eligibility verdict for one provider in one
// checkout context. All three component checks are reported even when an
// earlier one already fails.
type ProviderEligibility struct {
	Enabled          bool   `json:"enabled"`
	SupportsCountry  bool   `json:"supportsCountry"`
	SupportsCurrency bool   `json:"supportsCurrency"`
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
}

// Resolver decides whether a payment provider may serve a checkout. It never
// fails; missing or unreadable configuration degrades to not-eligible.
type Resolver struct {
	configs ConfigSource
	log     *logger.Logger
}

func NewResolver(configs ConfigSource, log *logger.Logger) (*Resolver, error) {
	if configs == nil {
		return nil, fmt.Errorf("gateway config source required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Resolver{configs: configs, log: log}, nil
}

// Resolve evaluates provider eligibility for the given country and currency.
// Allowed requires all three checks to pass; Reason carries the first failure
// in the order disabled, country, currency.
func (r *Resolver) Resolve(ctx context.Context, provider enums.PaymentProvider, country string, currency enums.Currency) ProviderEligibility {
	cfg, err := r.configs.GatewayConfig(ctx, provider)
	if err != nil {
		r.log.Warn(r.log.WithProvider(ctx, provider.String()), "gateway config unavailable, treating provider as disabled")
		cfg = settings.GatewayConfig{}
	}

	out := ProviderEligibility{
		Enabled:          cfg.Enabled,
		SupportsCountry:  providerSupportsCountry(provider, cfg, country),
		SupportsCurrency: SupportsCurrency(provider, currency),
	}
	out.Allowed = out.Enabled && out.SupportsCountry && out.SupportsCurrency

	switch {
	case out.Allowed:
	case !out.Enabled:
		out.Reason = ReasonProviderDisabled
	case !out.SupportsCountry:
		out.Reason = ReasonCountryNotSupported
	default:
		out.Reason = ReasonCurrencyNotSupported
	}
	return out
}

// providerSupportsCountry combines the administrator allow-list with the
// provider's fixed country table. An absent allow-list means the provider is
// global; an explicit list extends, never shrinks, the fixed table.
func providerSupportsCountry(provider enums.PaymentProvider, cfg settings.GatewayConfig, country string) bool {
	code, err := NormalizeCountryCode(country)
	if err != nil {
		return false
	}
	if cfg.AllowsCountry(code) {
		return true
	}
	for _, fixed := range providerCountries[provider] {
		if fixed == code {
			return true
		}
	}
	return false
}

// SupportedPaymentMethodsForContext narrows a provider's static method set to
// the checkout context. Non-card rails are only offered when the restaurant
// sits in a covered country and prices in one of its local currencies;
// everywhere else checkout falls back to card only.
func SupportedPaymentMethodsForContext(provider enums.PaymentProvider, country string, currency enums.Currency) []enums.CheckoutPaymentMethod {
	methods := SupportedMethods(provider)
	code, err := NormalizeCountryCode(country)
	if err == nil && IsRegionalCountry(code) && IsLocalCurrency(currency) {
		return methods
	}
	out := make([]enums.CheckoutPaymentMethod, 0, 1)
	for _, method := range methods {
		if method == enums.CheckoutPaymentMethodCard {
			out = append(out, method)
		}
	}
	return out
}
