package controllers

import (
	"net/http"

	"github.com/lendom/storefront-backend/api/responses"
	catalogsvc "github.com/lendom/storefront-backend/internal/catalog"
	pkgerrors "github.com/lendom/storefront-backend/pkg/errors"
	"github.com/lendom/storefront-backend/pkg/logger"
)

// CatalogList handles the product listing, optionally filtered by category.
func CatalogList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.List(r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, catalogListResponse{
			Products: products,
			Count:    len(products),
		})
	}
}

// CatalogCategories returns the category filter values in first-seen order.
func CatalogCategories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.Categories()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]string{"categories": categories})
	}
}

type catalogListResponse struct {
	Products []catalogsvc.Product `json:"products"`
	Count    int                  `json:"count"`
}
