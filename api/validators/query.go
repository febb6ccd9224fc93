package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/qrdine/qrdine-backend/internal/gateways"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

func ParseQueryBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseCountryQuery normalizes a required country query parameter to
// ISO-3166 alpha-2.
func ParseCountryQuery(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "country query parameter required").WithDetails(map[string]any{"field": key})
	}
	code, err := gateways.NormalizeCountryCode(raw)
	if err != nil {
		return "", err
	}
	return code, nil
}

// ParseCurrencyQuery reads an optional currency query parameter. An
// unrecognized value behaves the same as an absent one.
func ParseCurrencyQuery(r *http.Request, key string) (enums.Currency, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return "", false
	}
	currency, err := enums.ParseCurrency(strings.ToUpper(raw))
	if err != nil {
		return "", false
	}
	return currency, true
}

// ParseProviderQuery reads an optional payment provider filter. An
// unrecognized provider is a validation error so callers cannot silently
// probe non-existent integrations.
func ParseProviderQuery(r *http.Request, key string) (enums.PaymentProvider, bool, error) {
	raw := strings.TrimSpace(strings.ToLower(r.URL.Query().Get(key)))
	if raw == "" {
		return "", false, nil
	}
	provider, err := enums.ParsePaymentProvider(raw)
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment provider").WithDetails(map[string]any{"field": key, "value": raw})
	}
	return provider, true, nil
}
