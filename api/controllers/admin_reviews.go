package controllers

import (
	"net/http"

	"github.com/vastralabs/vastra-backend/api/responses"
	reviewssvc "github.com/vastralabs/vastra-backend/internal/reviews"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

// AdminReviewDelete removes a review and refreshes the product's
// cached rating aggregates.
func AdminReviewDelete(svc reviewssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, err := pathUUID(r, "reviewId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), reviewID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
