package catalog

import (
	"context"
	"strings"
	"time"

	pkgerrors "github.com/lendom/storefront-backend/pkg/errors"
	"github.com/lendom/storefront-backend/pkg/logger"
	"github.com/lendom/storefront-backend/pkg/metrics"
)

// Service exposes the read-only product catalog.
type Service interface {
	List(category string) ([]Product, error)
	Get(id int) (*Product, error)
	Categories() ([]string, error)
	Ready(ctx context.Context) error
}

type service struct {
	products []Product
	byID     map[int]Product
	loadErr  error
}

// NewService loads the catalog once at startup. A load failure is not fatal:
// the service stays up and catalog operations answer with a dependency error.
func NewService(ctx context.Context, path string, logg *logger.Logger, m *metrics.StorefrontMetrics) Service {
	start := time.Now()
	products, err := LoadFile(path)
	if err != nil {
		if logg != nil {
			logg.Error(ctx, "catalog load failed", err)
		}
		return &service{loadErr: pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unavailable")}
	}

	m.ObserveCatalogLoad(time.Since(start), len(products))
	if logg != nil {
		ctx = logg.WithField(ctx, "products", len(products))
		logg.Info(ctx, "catalog loaded")
	}

	byID := make(map[int]Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	return &service{products: products, byID: byID}
}

// NewServiceFromProducts builds a catalog from an already-validated listing.
func NewServiceFromProducts(products []Product) Service {
	byID := make(map[int]Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	return &service{products: products, byID: byID}
}

// List returns products in file order, optionally narrowed to one category.
func (s *service) List(category string) ([]Product, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	category = strings.TrimSpace(strings.ToLower(category))
	if category == "" || category == CategoryAll {
		out := make([]Product, len(s.products))
		copy(out, s.products)
		return out, nil
	}

	out := make([]Product, 0)
	for _, product := range s.products {
		if strings.EqualFold(product.Category, category) {
			out = append(out, product)
		}
	}
	return out, nil
}

// Get returns the product for id, or not-found.
func (s *service) Get(id int) (*Product, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	product, ok := s.byID[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &product, nil
}

// Categories returns the distinct categories in first-seen order.
func (s *service) Categories() ([]string, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, product := range s.products {
		key := strings.ToLower(product.Category)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, product.Category)
	}
	return out, nil
}

// Ready reports whether the catalog loaded successfully.
func (s *service) Ready(_ context.Context) error {
	return s.loadErr
}
