package location

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/lendom/storefront-backend/pkg/errors"
	"github.com/lendom/storefront-backend/pkg/geo"
	"github.com/lendom/storefront-backend/pkg/logger"
	"github.com/lendom/storefront-backend/pkg/redis"
	"github.com/lendom/storefront-backend/pkg/types"
)

// locationTTL bounds how long a session's pick outlives its last write.
const locationTTL = 24 * time.Hour

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LocationKey(sessionID string) string
	PendingLocationKey(sessionID string) string
}

type geolocator interface {
	CurrentPosition(ctx context.Context, clientIP string) (*types.LatLng, error)
}

// State is the picker view for one session: the confirmed location plus any
// unconfirmed pick awaiting the shopper's decision.
type State struct {
	Selected *types.LatLng `json:"selected"`
	Pending  *types.LatLng `json:"pending"`
}

// Service drives the two-step location pick: a coordinate becomes pending on
// selection and only counts toward the order once confirmed.
type Service interface {
	State(ctx context.Context, sessionID string) (State, error)
	Select(ctx context.Context, sessionID string, pair types.LatLng) (State, error)
	Confirm(ctx context.Context, sessionID string) (State, error)
	Discard(ctx context.Context, sessionID string) error
	Selected(ctx context.Context, sessionID string) (*types.LatLng, error)
	Clear(ctx context.Context, sessionID string) error
	Geolocate(ctx context.Context, sessionID, clientIP string) (State, error)
}

type service struct {
	kv      kvStore
	locator geolocator
	logg    *logger.Logger
}

// NewService builds the picker over the key-value store. The locator may be
// nil when no provider is configured; Geolocate then degrades cleanly.
func NewService(kv kvStore, locator geolocator, logg *logger.Logger) (Service, error) {
	if kv == nil {
		return nil, fmt.Errorf("key-value store required")
	}
	return &service{kv: kv, locator: locator, logg: logg}, nil
}

// State returns both slots for the session.
func (s *service) State(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	selected, err := s.read(ctx, s.kv.LocationKey(sessionID))
	if err != nil {
		return State{}, err
	}
	pending, err := s.read(ctx, s.kv.PendingLocationKey(sessionID))
	if err != nil {
		return State{}, err
	}
	return State{Selected: selected, Pending: pending}, nil
}

// Select stages a coordinate as the pending pick, replacing any prior one.
func (s *service) Select(ctx context.Context, sessionID string, pair types.LatLng) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := pair.Validate(); err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coordinates")
	}
	if err := s.write(ctx, s.kv.PendingLocationKey(sessionID), pair); err != nil {
		return State{}, err
	}
	return s.State(ctx, sessionID)
}

// Confirm promotes the pending pick to the confirmed slot.
func (s *service) Confirm(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	pendingKey := s.kv.PendingLocationKey(sessionID)
	pending, err := s.read(ctx, pendingKey)
	if err != nil {
		return State{}, err
	}
	if pending == nil {
		return State{}, pkgerrors.New(pkgerrors.CodeConflict, "no pending location to confirm")
	}

	if err := s.write(ctx, s.kv.LocationKey(sessionID), *pending); err != nil {
		return State{}, err
	}
	if err := s.kv.Del(ctx, pendingKey); err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear pending location")
	}
	return s.State(ctx, sessionID)
}

// Discard drops the pending pick; the confirmed slot is untouched.
func (s *service) Discard(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.kv.Del(ctx, s.kv.PendingLocationKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "discard pending location")
	}
	return nil
}

// Selected returns the confirmed location, or nil when none is set.
func (s *service) Selected(ctx context.Context, sessionID string) (*types.LatLng, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.read(ctx, s.kv.LocationKey(sessionID))
}

// Clear drops both slots. Runs after a checkout hands off to WhatsApp.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	err := s.kv.Del(ctx, s.kv.LocationKey(sessionID), s.kv.PendingLocationKey(sessionID))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear location")
	}
	return nil
}

// Geolocate resolves the shopper's position through the provider and stages
// it as the pending pick, leaving confirmation to the shopper.
func (s *service) Geolocate(ctx context.Context, sessionID, clientIP string) (State, error) {
	if sessionID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if s.locator == nil {
		return State{}, pkgerrors.New(pkgerrors.CodeDependency, "geolocation is not configured").
			WithDetails(map[string]string{"reason": "position_unavailable"})
	}

	pair, err := s.locator.CurrentPosition(ctx, clientIP)
	if err != nil {
		reason := geo.Reason(err)
		if reason == "" {
			reason = "position_unavailable"
		}
		if s.logg != nil {
			lctx := s.logg.WithField(ctx, "reason", reason)
			s.logg.Warn(lctx, "geolocation lookup failed")
		}
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "geolocation lookup failed").
			WithDetails(map[string]string{"reason": reason})
	}

	return s.Select(ctx, sessionID, *pair)
}

func (s *service) write(ctx context.Context, key string, pair types.LatLng) error {
	payload, err := json.Marshal(pair)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal location")
	}
	if err := s.kv.Set(ctx, key, string(payload), locationTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store location")
	}
	return nil
}

func (s *service) read(ctx context.Context, key string) (*types.LatLng, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if redis.Nil(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read location")
	}
	var pair types.LatLng
	if err := json.Unmarshal([]byte(raw), &pair); err != nil {
		// a corrupt slot is treated as unset rather than wedging the picker
		if s.logg != nil {
			lctx := s.logg.WithField(ctx, "key", key)
			s.logg.Warn(lctx, "location slot unreadable, treating as unset")
		}
		return nil, nil
	}
	return &pair, nil
}
