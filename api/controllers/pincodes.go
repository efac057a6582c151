package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vastralabs/vastra-backend/api/responses"
	pincodessvc "github.com/vastralabs/vastra-backend/internal/pincodes"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

// PincodeCheck answers the storefront "can we deliver here" question.
func PincodeCheck(svc pincodessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pincode := strings.TrimSpace(chi.URLParam(r, "pincode"))
		if pincode == "" {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeValidation, "pincode required"))
			return
		}

		result, err := svc.Check(r.Context(), pincode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
