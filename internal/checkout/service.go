package checkout

import (
	"context"
	"fmt"

	"github.com/lendom/storefront-backend/internal/cart"
	"github.com/lendom/storefront-backend/internal/order"
	"github.com/lendom/storefront-backend/pkg/config"
	pkgerrors "github.com/lendom/storefront-backend/pkg/errors"
	"github.com/lendom/storefront-backend/pkg/logger"
	"github.com/lendom/storefront-backend/pkg/metrics"
	"github.com/lendom/storefront-backend/pkg/types"
)

type cartReader interface {
	Get(ctx context.Context, sessionID string) (cart.Snapshot, error)
}

type locationReader interface {
	Selected(ctx context.Context, sessionID string) (*types.LatLng, error)
	Clear(ctx context.Context, sessionID string) error
}

// Result is the handoff payload: the rendered document, the deep link that
// opens WhatsApp with it, and the order total in rupiah.
type Result struct {
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
	Total       int    `json:"total"`
}

// Service turns a session's cart into a WhatsApp handoff.
type Service interface {
	Submit(ctx context.Context, sessionID string, customer order.CustomerInfo) (Result, error)
}

type service struct {
	cfg       config.CheckoutConfig
	cart      cartReader
	location  locationReader
	formatter *order.Formatter
	logg      *logger.Logger
	metrics   *metrics.StorefrontMetrics
}

// NewService wires the checkout flow.
func NewService(cfg config.CheckoutConfig, cartSvc cartReader, locationSvc locationReader, logg *logger.Logger, m *metrics.StorefrontMetrics) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if locationSvc == nil {
		return nil, fmt.Errorf("location service required")
	}
	return &service{
		cfg:       cfg,
		cart:      cartSvc,
		location:  locationSvc,
		formatter: order.NewFormatter(cfg.StoreName),
		logg:      logg,
		metrics:   m,
	}, nil
}

// Submit renders the session's order and builds the WhatsApp link. The
// selected location is attached when present and cleared afterwards; the cart
// is left intact so the shopper can retry if the chat never gets sent.
func (s *service) Submit(ctx context.Context, sessionID string, customer order.CustomerInfo) (Result, error) {
	if sessionID == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	snap, err := s.cart.Get(ctx, sessionID)
	if err != nil {
		s.metrics.IncCheckoutFailure()
		return Result{}, err
	}

	loc, err := s.location.Selected(ctx, sessionID)
	if err != nil {
		// the location is optional; a store outage downgrades the order
		// rather than blocking it
		if s.logg != nil {
			s.logg.Warn(ctx, "selected location unreadable, submitting without it")
		}
		loc = nil
	}

	document, err := s.formatter.Format(snap.Lines, customer, loc)
	if err != nil {
		s.metrics.IncCheckoutFailure()
		return Result{}, err
	}

	if err := s.location.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Error(ctx, "clearing location after checkout failed", err)
	}

	s.metrics.IncCheckoutSuccess()
	return Result{
		Message:     document,
		WhatsAppURL: order.WhatsAppLink(s.cfg.WhatsAppBaseURL, s.cfg.WhatsAppNumber, document),
		Total:       snap.TotalValue,
	}, nil
}
