package location

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/lendom/storefront-backend/pkg/errors"
	"github.com/lendom/storefront-backend/pkg/geo"
	"github.com/lendom/storefront-backend/pkg/types"
)

type fakeKV struct {
	values map[string]string
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeKV) LocationKey(sessionID string) string {
	return "lendom:location:" + sessionID
}

func (f *fakeKV) PendingLocationKey(sessionID string) string {
	return "lendom:location_pending:" + sessionID
}

type fakeLocator struct {
	pair *types.LatLng
	err  error
}

func (f *fakeLocator) CurrentPosition(context.Context, string) (*types.LatLng, error) {
	return f.pair, f.err
}

var jakarta = types.LatLng{Lat: -6.2088, Lng: 106.8456}

func newTestService(t *testing.T, kv kvStore, locator geolocator) Service {
	t.Helper()
	svc, err := NewService(kv, locator, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestSelectStagesPending(t *testing.T) {
	svc := newTestService(t, newFakeKV(), nil)

	state, err := svc.Select(context.Background(), "sess-1", jakarta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Pending == nil || *state.Pending != jakarta {
		t.Fatalf("expected pending pick, got %+v", state)
	}
	if state.Selected != nil {
		t.Fatalf("expected no confirmed location yet, got %+v", state.Selected)
	}
}

func TestSelectReplacesPriorPending(t *testing.T) {
	svc := newTestService(t, newFakeKV(), nil)
	ctx := context.Background()

	if _, err := svc.Select(ctx, "sess-1", jakarta); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := types.LatLng{Lat: -6.9, Lng: 107.6}
	state, err := svc.Select(ctx, "sess-1", second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *state.Pending != second {
		t.Fatalf("expected replacement, got %+v", state.Pending)
	}
}

func TestSelectRejectsOutOfRangeCoordinates(t *testing.T) {
	svc := newTestService(t, newFakeKV(), nil)

	_, err := svc.Select(context.Background(), "sess-1", types.LatLng{Lat: 91, Lng: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConfirmPromotesPending(t *testing.T) {
	kv := newFakeKV()
	svc := newTestService(t, kv, nil)
	ctx := context.Background()

	if _, err := svc.Select(ctx, "sess-1", jakarta); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err := svc.Confirm(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Selected == nil || *state.Selected != jakarta {
		t.Fatalf("expected confirmed location, got %+v", state)
	}
	if state.Pending != nil {
		t.Fatalf("expected pending cleared, got %+v", state.Pending)
	}
}

func TestConfirmWithoutPending(t *testing.T) {
	svc := newTestService(t, newFakeKV(), nil)

	_, err := svc.Confirm(context.Background(), "sess-1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestDiscardLeavesConfirmedIntact(t *testing.T) {
	svc := newTestService(t, newFakeKV(), nil)
	ctx := context.Background()

	svc.Select(ctx, "sess-1", jakarta)
	svc.Confirm(ctx, "sess-1")
	svc.Select(ctx, "sess-1", types.LatLng{Lat: -7.25, Lng: 112.75})

	if err := svc.Discard(ctx, "sess-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err := svc.State(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Pending != nil {
		t.Fatalf("expected pending dropped, got %+v", state.Pending)
	}
	if state.Selected == nil || *state.Selected != jakarta {
		t.Fatalf("expected confirmed location kept, got %+v", state.Selected)
	}
}

func TestClearDropsBothSlots(t *testing.T) {
	svc := newTestService(t, newFakeKV(), nil)
	ctx := context.Background()

	svc.Select(ctx, "sess-1", jakarta)
	svc.Confirm(ctx, "sess-1")
	svc.Select(ctx, "sess-1", jakarta)

	if err := svc.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err := svc.State(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Selected != nil || state.Pending != nil {
		t.Fatalf("expected empty state, got %+v", state)
	}
}

func TestSelectedNilWhenUnset(t *testing.T) {
	svc := newTestService(t, newFakeKV(), nil)

	pair, err := svc.Selected(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair != nil {
		t.Fatalf("expected nil, got %+v", pair)
	}
}

func TestCorruptSlotTreatedAsUnset(t *testing.T) {
	kv := newFakeKV()
	kv.values[kv.LocationKey("sess-1")] = "{not json"
	svc := newTestService(t, kv, nil)

	pair, err := svc.Selected(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair != nil {
		t.Fatalf("expected nil for corrupt slot, got %+v", pair)
	}
}

func TestGeolocateStagesPending(t *testing.T) {
	svc := newTestService(t, newFakeKV(), &fakeLocator{pair: &jakarta})

	state, err := svc.Geolocate(context.Background(), "sess-1", "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Pending == nil || *state.Pending != jakarta {
		t.Fatalf("expected pending pick, got %+v", state)
	}
	if state.Selected != nil {
		t.Fatal("geolocate must not auto-confirm")
	}
}

func TestGeolocateFailureReasons(t *testing.T) {
	cases := map[string]struct {
		err    error
		reason string
	}{
		"denied":      {geo.ErrPermissionDenied, "permission_denied"},
		"unavailable": {geo.ErrPositionUnavailable, "position_unavailable"},
		"timeout":     {geo.ErrTimeout, "timeout"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(t, newFakeKV(), &fakeLocator{err: tc.err})

			_, err := svc.Geolocate(context.Background(), "sess-1", "")
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeDependency {
				t.Fatalf("expected dependency error, got %v", err)
			}
			details, ok := typed.Details().(map[string]string)
			if !ok || details["reason"] != tc.reason {
				t.Fatalf("expected reason %q, got %v", tc.reason, typed.Details())
			}
		})
	}
}

func TestGeolocateWithoutProvider(t *testing.T) {
	svc := newTestService(t, newFakeKV(), nil)

	_, err := svc.Geolocate(context.Background(), "sess-1", "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
