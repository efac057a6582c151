package controllers

import (
	"net/http"

	"github.com/vastralabs/vastra-backend/api/responses"
	"github.com/vastralabs/vastra-backend/api/validators"
	paymentssvc "github.com/vastralabs/vastra-backend/internal/payments"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

// AdminPaymentSettingsGet returns the singleton gateway settings row.
func AdminPaymentSettingsGet(svc paymentssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// AdminPaymentSettingsUpdate applies a partial update. Omitted fields
// keep their current values.
func AdminPaymentSettingsUpdate(svc paymentssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload paymentssvc.UpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settings, err := svc.Update(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}
