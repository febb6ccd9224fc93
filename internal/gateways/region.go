package gateways

import (
	"regexp"
	"strings"

	"github.com/qrdine/qrdine-backend/pkg/enums"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
)

var countryCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)

// regionalCountries is the fixed set of countries where non-card rails
// (mobile money and friends) are offered at all.
var regionalCountries = map[string]struct{}{
	"BJ": {}, "BW": {}, "BF": {}, "CM": {}, "CI": {}, "CD": {},
	"DZ": {}, "EG": {}, "ET": {}, "GA": {}, "GH": {}, "GM": {},
	"GN": {}, "KE": {}, "LR": {}, "MA": {}, "ML": {}, "MW": {},
	"MZ": {}, "NE": {}, "NG": {}, "RW": {}, "SL": {}, "SN": {},
	"TG": {}, "TN": {}, "TZ": {}, "UG": {}, "ZA": {}, "ZM": {},
}

// localCurrencies is the set of denominations eligible for non-card methods.
var localCurrencies = map[enums.Currency]struct{}{
	enums.CurrencyNGN: {},
	enums.CurrencyGHS: {},
	enums.CurrencyKES: {},
	enums.CurrencyZAR: {},
}

// currencyCountries maps a denomination to the countries it prices for.
var currencyCountries = map[enums.Currency][]string{
	enums.CurrencyNGN: {"NG"},
	enums.CurrencyGHS: {"GH"},
	enums.CurrencyKES: {"KE"},
	enums.CurrencyZAR: {"ZA"},
	enums.CurrencyGBP: {"GB"},
	enums.CurrencyEUR: {"FR", "DE", "ES", "IT", "NL", "IE", "PT"},
}

// preferredProviders picks the default processor for each denomination.
var preferredProviders = map[enums.Currency]enums.PaymentProvider{
	enums.CurrencyNGN: enums.PaymentProviderPaystack,
	enums.CurrencyGHS: enums.PaymentProviderPaystack,
	enums.CurrencyKES: enums.PaymentProviderFlutterwave,
	enums.CurrencyZAR: enums.PaymentProviderPaystack,
	enums.CurrencyUSD: enums.PaymentProviderStripe,
	enums.CurrencyGBP: enums.PaymentProviderStripe,
	enums.CurrencyEUR: enums.PaymentProviderStripe,
}

// NormalizeCountryCode uppercases and validates an ISO-3166 alpha-2 code.
// Invalid input is a validation error, never a silent default.
func NormalizeCountryCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !countryCodeRe.MatchString(code) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "country code must be ISO-3166 alpha-2").
			WithDetails(map[string]any{"field": "country", "value": raw})
	}
	return code, nil
}

// IsRegionalCountry reports whether the country is in the fixed regional set.
// Countries outside the set are "rest of world" and card-only.
func IsRegionalCountry(code string) bool {
	_, ok := regionalCountries[code]
	return ok
}

// IsLocalCurrency reports whether the currency is eligible for non-card rails.
func IsLocalCurrency(currency enums.Currency) bool {
	_, ok := localCurrencies[currency]
	return ok
}

// CurrencyCountries returns the countries a denomination prices for.
func CurrencyCountries(currency enums.Currency) []string {
	src := currencyCountries[currency]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// PreferredProvider returns the default processor for a denomination.
func PreferredProvider(currency enums.Currency) (enums.PaymentProvider, bool) {
	provider, ok := preferredProviders[currency]
	return provider, ok
}
