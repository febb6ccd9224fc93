package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrdine/qrdine-backend/api/responses"
	"github.com/qrdine/qrdine-backend/api/validators"
	"github.com/qrdine/qrdine-backend/internal/settings"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
	"github.com/qrdine/qrdine-backend/pkg/logger"
)

type gatewayConfigRequest struct {
	Enabled bool `json:"enabled"`
	// Countries is the optional allow-list. Empty means global. Entries are
	// validated as ISO-3166 alpha-2 when the config is normalized.
	Countries []string `json:"countries"`
}

// AdminSetGatewayConfig persists the administrator enablement and country
// allow-list for one payment provider.
func AdminSetGatewayConfig(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		provider, err := enums.ParsePaymentProvider(chi.URLParam(r, "provider"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment provider"))
			return
		}

		var body gatewayConfigRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cfg := settings.GatewayConfig{
			Enabled:   body.Enabled,
			Countries: body.Countries,
		}

		saved, err := svc.SetGatewayConfig(r.Context(), provider, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, saved)
	}
}

// AdminGetGatewayConfig returns the stored configuration for one provider.
func AdminGetGatewayConfig(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		provider, err := enums.ParsePaymentProvider(chi.URLParam(r, "provider"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment provider"))
			return
		}

		cfg, err := svc.GatewayConfig(r.Context(), provider)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cfg)
	}
}
