package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func sessionProbe(captured *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = SessionIDFromContext(r.Context())
	})
}

func TestSessionMintsCookie(t *testing.T) {
	var seen string
	handler := Session(nil, false)(sessionProbe(&seen))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected session id in context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid session id, got %q", seen)
	}

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName || cookies[0].Value != seen {
		t.Fatalf("expected matching cookie, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("expected HttpOnly cookie")
	}
}

func TestSessionReusesValidCookie(t *testing.T) {
	var seen string
	handler := Session(nil, false)(sessionProbe(&seen))

	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: existing})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen != existing {
		t.Fatalf("expected session %q reused, got %q", existing, seen)
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatal("expected no new cookie for an existing session")
	}
}

func TestSessionReplacesMalformedCookie(t *testing.T) {
	var seen string
	handler := Session(nil, false)(sessionProbe(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen == "not-a-uuid" || seen == "" {
		t.Fatalf("expected fresh session, got %q", seen)
	}
	if len(resp.Result().Cookies()) != 1 {
		t.Fatal("expected replacement cookie")
	}
}
