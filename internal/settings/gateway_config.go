package settings

import (
	"regexp"
	"strings"

	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
)

var gatewayCountryRe = regexp.MustCompile(`^[A-Z]{2}$`)

// GatewayConfig is the administrator-configured state for one payment
// provider. It is a typed record validated at the boundary; an empty country
// list means the provider is treated as global.
type GatewayConfig struct {
	Enabled   bool     `json:"enabled"`
	Countries []string `json:"countries,omitempty"`
}

// Normalize uppercases and validates the configured country allow-list.
func (c GatewayConfig) Normalize() (GatewayConfig, error) {
	out := GatewayConfig{Enabled: c.Enabled}
	for _, raw := range c.Countries {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" {
			continue
		}
		if !gatewayCountryRe.MatchString(code) {
			return GatewayConfig{}, pkgerrors.New(pkgerrors.CodeValidation, "allow-list entries must be ISO-3166 alpha-2").
				WithDetails(map[string]any{"field": "countries", "value": raw})
		}
		out.Countries = append(out.Countries, code)
	}
	return out, nil
}

// AllowsCountry reports whether the allow-list permits the country. An empty
// list permits every country.
func (c GatewayConfig) AllowsCountry(code string) bool {
	if len(c.Countries) == 0 {
		return true
	}
	for _, candidate := range c.Countries {
		if candidate == code {
			return true
		}
	}
	return false
}

func (c GatewayConfig) toValue() map[string]any {
	value := map[string]any{"enabled": c.Enabled}
	if len(c.Countries) > 0 {
		countries := make([]any, 0, len(c.Countries))
		for _, code := range c.Countries {
			countries = append(countries, code)
		}
		value["countries"] = countries
	}
	return value
}

func gatewayConfigFromValue(value map[string]any) GatewayConfig {
	var cfg GatewayConfig
	if value == nil {
		return cfg
	}
	if enabled, ok := value["enabled"].(bool); ok {
		cfg.Enabled = enabled
	}
	if raw, ok := value["countries"].([]any); ok {
		for _, entry := range raw {
			if code, ok := entry.(string); ok {
				cfg.Countries = append(cfg.Countries, code)
			}
		}
	}
	return cfg
}
