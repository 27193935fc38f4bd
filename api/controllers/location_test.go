package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	locationsvc "github.com/lendom/storefront-backend/internal/location"
	pkgerrors "github.com/lendom/storefront-backend/pkg/errors"
	"github.com/lendom/storefront-backend/pkg/types"
)

type stubLocationService struct {
	state locationsvc.State
	err   error

	gotPair *types.LatLng
	gotIP   string
}

func (s *stubLocationService) State(context.Context, string) (locationsvc.State, error) {
	return s.state, s.err
}

func (s *stubLocationService) Select(_ context.Context, _ string, pair types.LatLng) (locationsvc.State, error) {
	s.gotPair = &pair
	return s.state, s.err
}

func (s *stubLocationService) Confirm(context.Context, string) (locationsvc.State, error) {
	return s.state, s.err
}

func (s *stubLocationService) Discard(context.Context, string) error {
	return s.err
}

func (s *stubLocationService) Selected(context.Context, string) (*types.LatLng, error) {
	return s.state.Selected, s.err
}

func (s *stubLocationService) Clear(context.Context, string) error {
	return s.err
}

func (s *stubLocationService) Geolocate(_ context.Context, _ string, clientIP string) (locationsvc.State, error) {
	s.gotIP = clientIP
	return s.state, s.err
}

func TestLocationSelect(t *testing.T) {
	svc := &stubLocationService{}
	handler := LocationSelect(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/location/select", `{"lat":-6.2088,"lng":106.8456}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotPair == nil || svc.gotPair.Lat != -6.2088 || svc.gotPair.Lng != 106.8456 {
		t.Fatalf("unexpected pair %+v", svc.gotPair)
	}
}

func TestLocationSelectZeroCoordinatesAllowed(t *testing.T) {
	svc := &stubLocationService{}
	handler := LocationSelect(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/location/select", `{"lat":0,"lng":0}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestLocationSelectMissingCoordinate(t *testing.T) {
	handler := LocationSelect(&stubLocationService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/location/select", `{"lat":-6.2}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLocationConfirmConflict(t *testing.T) {
	svc := &stubLocationService{err: pkgerrors.New(pkgerrors.CodeConflict, "no pending location to confirm")}
	handler := LocationConfirm(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/location/confirm", ""))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestLocationDiscard(t *testing.T) {
	handler := LocationDiscard(&stubLocationService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodDelete, "/api/v1/location", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestLocationState(t *testing.T) {
	svc := &stubLocationService{state: locationsvc.State{
		Selected: &types.LatLng{Lat: -6.2088, Lng: 106.8456},
	}}
	handler := LocationState(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/location", ""))

	var envelope struct {
		Data locationsvc.State `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Selected == nil || envelope.Data.Selected.Lat != -6.2088 {
		t.Fatalf("unexpected state %+v", envelope.Data)
	}
}

func TestLocationGeolocateForwardsClientIP(t *testing.T) {
	svc := &stubLocationService{}
	handler := LocationGeolocate(svc, nil)

	req := sessionRequest(http.MethodPost, "/api/v1/location/geolocate", "")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotIP != "203.0.113.7" {
		t.Fatalf("expected forwarded ip, got %q", svc.gotIP)
	}
}

func TestLocationGeolocateFailure(t *testing.T) {
	svc := &stubLocationService{err: pkgerrors.New(pkgerrors.CodeDependency, "geolocation lookup failed").
		WithDetails(map[string]string{"reason": "timeout"})}
	handler := LocationGeolocate(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/location/geolocate", ""))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Details["reason"] != "timeout" {
		t.Fatalf("expected timeout reason, got %v", envelope.Error.Details)
	}
}
