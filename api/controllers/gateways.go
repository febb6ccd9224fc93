package controllers

import (
	"net/http"
	"time"

	"github.com/qrdine/qrdine-backend/api/responses"
	"github.com/qrdine/qrdine-backend/api/validators"
	"github.com/qrdine/qrdine-backend/internal/gateways"
	"github.com/qrdine/qrdine-backend/internal/gateways/discovery"
	"github.com/qrdine/qrdine-backend/internal/providers"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
	"github.com/qrdine/qrdine-backend/pkg/logger"
)

type gatewayLive struct {
	Banks []providers.Bank `json:"banks"`
	Error string           `json:"error,omitempty"`
}

type gatewayOptionResult struct {
	Provider       enums.PaymentProvider        `json:"provider"`
	CountryCode    string                       `json:"countryCode"`
	Currency       string                       `json:"currency,omitempty"`
	Live           gatewayLive                  `json:"live"`
	ProviderNative gateways.ProviderEligibility `json:"providerNative"`
	Internal       gatewayInternal              `json:"internal"`
}

type gatewayInternal struct {
	PaymentMethodsAllowed []enums.CheckoutPaymentMethod `json:"paymentMethodsAllowed"`
}

type gatewayOptionsResponse struct {
	GeneratedAt time.Time             `json:"generatedAt"`
	Results     []gatewayOptionResult `json:"results"`
}

// GatewayOptions resolves, per provider, what a checkout in the given
// country/currency may use, alongside a live bank-list probe where the
// provider supports one.
func GatewayOptions(resolver *gateways.Resolver, listers providers.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateway resolver unavailable"))
			return
		}

		country, err := validators.ParseCountryQuery(r, "country")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency, hasCurrency := validators.ParseCurrencyQuery(r, "currency")

		candidates := enums.PaymentProviders()
		if provider, ok, perr := validators.ParseProviderQuery(r, "provider"); perr != nil {
			responses.WriteError(r.Context(), logg, w, perr)
			return
		} else if ok {
			candidates = []enums.PaymentProvider{provider}
		}

		resp := gatewayOptionsResponse{
			GeneratedAt: time.Now().UTC(),
			Results:     make([]gatewayOptionResult, 0, len(candidates)),
		}

		for _, provider := range candidates {
			result := gatewayOptionResult{
				Provider:       provider,
				CountryCode:    country,
				ProviderNative: resolver.Resolve(r.Context(), provider, country, currency),
				Internal: gatewayInternal{
					PaymentMethodsAllowed: gateways.SupportedPaymentMethodsForContext(provider, country, currency),
				},
			}
			if hasCurrency {
				result.Currency = currency.String()
			}

			if lister, ok := listers.Lister(provider); ok {
				banks, liveErr := lister.ListBanks(r.Context(), country)
				if liveErr != nil {
					result.Live.Error = liveErr.Error()
				} else {
					result.Live.Banks = banks
				}
			} else {
				result.Live.Error = "bank listing not integrated"
			}
			if result.Live.Banks == nil {
				result.Live.Banks = []providers.Bank{}
			}

			resp.Results = append(resp.Results, result)
		}

		responses.WriteSuccess(w, resp)
	}
}

type gatewayCapability struct {
	Integrated              bool                          `json:"integrated"`
	Enabled                 bool                          `json:"enabled"`
	SupportedCurrencies     []enums.Currency              `json:"supportedCurrencies"`
	SupportedCountries      []string                      `json:"supportedCountries"`
	SupportedPaymentMethods []enums.CheckoutPaymentMethod `json:"supportedPaymentMethods"`
	ProviderNative          *gateways.ProviderEligibility `json:"providerNative,omitempty"`
}

type gatewayContext struct {
	CountryCode         string                                  `json:"countryCode"`
	Currency            enums.Currency                          `json:"currency"`
	Eligibility         map[string]gateways.ProviderEligibility `json:"eligibility"`
	PaymentMethods      []enums.CheckoutPaymentMethod           `json:"paymentMethods"`
	RecommendedProvider string                                  `json:"recommendedProvider,omitempty"`
}

type gatewayCapabilitiesResponse struct {
	GeneratedAt time.Time                    `json:"generatedAt"`
	Providers   map[string]gatewayCapability `json:"providers"`
	Context     *gatewayContext              `json:"context,omitempty"`
}

// GatewayCapabilities reports the static capability table for every
// integrated provider, plus per-context eligibility when the caller supplies
// a country and a recognized currency.
func GatewayCapabilities(resolver *gateways.Resolver, configs gateways.ConfigSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil || configs == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateway services unavailable"))
			return
		}

		var country string
		if raw := r.URL.Query().Get("country"); raw != "" {
			normalized, err := gateways.NormalizeCountryCode(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			country = normalized
		}
		currency, hasCurrency := validators.ParseCurrencyQuery(r, "currency")
		hasContext := country != "" && hasCurrency

		resp := gatewayCapabilitiesResponse{
			GeneratedAt: time.Now().UTC(),
			Providers:   make(map[string]gatewayCapability, len(enums.PaymentProviders())),
		}

		var ctxPayload *gatewayContext
		if hasContext {
			ctxPayload = &gatewayContext{
				CountryCode:    country,
				Currency:       currency,
				Eligibility:    map[string]gateways.ProviderEligibility{},
				PaymentMethods: []enums.CheckoutPaymentMethod{},
			}
			if recommended, ok := gateways.PreferredProvider(currency); ok {
				ctxPayload.RecommendedProvider = recommended.String()
			}
		}

		seenMethods := map[enums.CheckoutPaymentMethod]bool{}
		for _, provider := range enums.PaymentProviders() {
			cfg, err := configs.GatewayConfig(r.Context(), provider)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			entry := gatewayCapability{
				Integrated:              true,
				Enabled:                 cfg.Enabled,
				SupportedCurrencies:     gateways.SupportedCurrencies(provider),
				SupportedCountries:      gateways.SupportedCountries(provider),
				SupportedPaymentMethods: gateways.SupportedMethods(provider),
			}

			if hasContext {
				eligibility := resolver.Resolve(r.Context(), provider, country, currency)
				entry.ProviderNative = &eligibility
				ctxPayload.Eligibility[provider.String()] = eligibility
				if eligibility.Allowed {
					for _, method := range gateways.SupportedPaymentMethodsForContext(provider, country, currency) {
						if !seenMethods[method] {
							seenMethods[method] = true
							ctxPayload.PaymentMethods = append(ctxPayload.PaymentMethods, method)
						}
					}
				}
			}

			resp.Providers[provider.String()] = entry
		}

		resp.Context = ctxPayload
		responses.WriteSuccess(w, resp)
	}
}

type discoverRequest struct {
	Provider string `json:"provider" validate:"required"`
	Offset   int    `json:"offset" validate:"min=0"`
	Limit    int    `json:"limit" validate:"min=0,max=100"`
	Persist  bool   `json:"persist"`
}

// GatewayDiscover runs a bounded-concurrency bank-list probe over a paging
// window of the provider's supported countries.
func GatewayDiscover(prober *discovery.Prober, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if prober == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discovery prober unavailable"))
			return
		}

		var body discoverRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		provider, err := enums.ParsePaymentProvider(body.Provider)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment provider"))
			return
		}

		batch, err := prober.Probe(r.Context(), discovery.Request{
			Provider: provider,
			Offset:   body.Offset,
			Limit:    body.Limit,
			Persist:  body.Persist,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, batch)
	}
}
