package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vastralabs/vastra-backend/api/responses"
	"github.com/vastralabs/vastra-backend/api/validators"
	"github.com/vastralabs/vastra-backend/internal/catalog"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

// ProductList serves the public storefront listing with cursor pagination.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sort, err := parseProductSort(r.URL.Query().Get("sort"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := catalog.ProductFilters{
			CategorySlug: strings.TrimSpace(r.URL.Query().Get("category")),
			Featured:     featured,
			Search:       strings.TrimSpace(r.URL.Query().Get("search")),
			Sort:         sort,
		}

		list, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ProductDetail serves one active product by slug.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeValidation, "slug required"))
			return
		}

		product, err := svc.GetProductBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CategoryList serves the active categories for storefront navigation.
func CategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

func parseProductSort(raw string) (catalog.ProductSort, error) {
	switch catalog.ProductSort(strings.TrimSpace(raw)) {
	case "", catalog.ProductSortNewest:
		return catalog.ProductSortNewest, nil
	case catalog.ProductSortPriceAsc:
		return catalog.ProductSortPriceAsc, nil
	case catalog.ProductSortPriceDesc:
		return catalog.ProductSortPriceDesc, nil
	}
	return "", apperrors.New(apperrors.CodeValidation, "unknown sort order").WithDetails(map[string]any{"field": "sort"})
}
