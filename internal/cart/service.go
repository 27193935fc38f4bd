package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lendom/storefront-backend/internal/catalog"
	pkgerrors "github.com/lendom/storefront-backend/pkg/errors"
	"github.com/lendom/storefront-backend/pkg/logger"
	"github.com/lendom/storefront-backend/pkg/metrics"
	"gorm.io/gorm"
)

type productLoader interface {
	Get(id int) (*catalog.Product, error)
}

// Snapshot is the cart view handed to callers after every read or mutation.
type Snapshot struct {
	Lines      Lines `json:"items"`
	TotalItems int   `json:"total_items"`
	TotalValue int   `json:"total_value"`
}

// Service exposes the session-scoped cart operations.
type Service interface {
	Get(ctx context.Context, sessionID string) (Snapshot, error)
	AddItem(ctx context.Context, sessionID string, productID int) (Snapshot, error)
	RemoveItem(ctx context.Context, sessionID string, productID int) (Snapshot, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID, delta int) (Snapshot, error)
}

type service struct {
	// mu serializes the load/mutate/persist sequence, which is not atomic
	// across its steps.
	mu      sync.Mutex
	repo    SlotRepository
	catalog productLoader
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewService builds a cart service over the slot repository and catalog.
func NewService(repo SlotRepository, catalogSvc productLoader, logg *logger.Logger, m *metrics.StorefrontMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("slot repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog required")
	}
	return &service{
		repo:    repo,
		catalog: catalogSvc,
		logg:    logg,
		metrics: m,
	}, nil
}

// Get returns the current cart, hydrating from the persisted slot.
func (s *service) Get(ctx context.Context, sessionID string) (Snapshot, error) {
	if sessionID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.restore(ctx, sessionID)), nil
}

// AddItem adds one unit of the product to the cart. An unknown product id is
// a caller bug: the cart is left untouched and not-found is returned.
func (s *service) AddItem(ctx context.Context, sessionID string, productID int) (Snapshot, error) {
	if sessionID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	product, err := s.catalog.Get(productID)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.restore(ctx, sessionID).Upsert(*product)
	s.persist(ctx, sessionID, lines)
	s.metrics.IncCartMutation("add")
	return snapshot(lines), nil
}

// RemoveItem deletes the product's line; no-op if absent.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID int) (Snapshot, error) {
	if sessionID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.restore(ctx, sessionID).Remove(productID)
	s.persist(ctx, sessionID, lines)
	s.metrics.IncCartMutation("remove")
	return snapshot(lines), nil
}

// UpdateQuantity applies a signed quantity delta; a result of zero or below
// removes the line.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID, delta int) (Snapshot, error) {
	if sessionID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if delta == 0 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.restore(ctx, sessionID).UpdateQuantity(productID, delta)
	s.persist(ctx, sessionID, lines)
	s.metrics.IncCartMutation("update_quantity")
	return snapshot(lines), nil
}

// restore fails open: a missing or corrupt slot yields an empty cart.
func (s *service) restore(ctx context.Context, sessionID string) Lines {
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) && s.logg != nil {
			ctx = s.logg.WithField(ctx, "error", err.Error())
			s.logg.Warn(ctx, "cart slot unreadable, starting empty")
		}
		return Lines{}
	}
	return lines
}

// persist is fire-and-forget: a failed flush is logged, never surfaced.
func (s *service) persist(ctx context.Context, sessionID string, lines Lines) {
	if err := s.repo.Save(ctx, sessionID, lines); err != nil && s.logg != nil {
		s.logg.Error(ctx, "cart slot flush failed", err)
	}
}

func snapshot(lines Lines) Snapshot {
	return Snapshot{
		Lines:      lines,
		TotalItems: lines.TotalItemCount(),
		TotalValue: lines.TotalValue(),
	}
}
