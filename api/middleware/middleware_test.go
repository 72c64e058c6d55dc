package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

func captureSession(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	handler := Session(logger.Nop(), SessionOptions{CookieMaxAge: time.Hour})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return seen, rec
}

func TestSessionUsesHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, "abc-123")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})

	seen, rec := captureSession(t, req)
	if seen != "abc-123" {
		t.Fatalf("expected header session, got %q", seen)
	}
	if got := rec.Header().Get(SessionHeader); got != "abc-123" {
		t.Fatalf("expected session echoed, got %q", got)
	}
}

func TestSessionFallsBackToCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})

	seen, rec := captureSession(t, req)
	if seen != "from-cookie" {
		t.Fatalf("expected cookie session, got %q", seen)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "from-cookie" || !cookies[0].HttpOnly || cookies[0].MaxAge != 3600 {
		t.Fatalf("unexpected cookie %+v", cookies)
	}
}

func TestSessionMintsWhenMissingOrInvalid(t *testing.T) {
	for _, header := range []string{"", "bad id;", strings.Repeat("x", 200)} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		if header != "" {
			req.Header.Set(SessionHeader, header)
		}
		seen, rec := captureSession(t, req)
		if _, err := uuid.Parse(seen); err != nil {
			t.Fatalf("expected minted uuid for %q, got %q", header, seen)
		}
		if rec.Header().Get(SessionHeader) != seen {
			t.Fatalf("expected minted id in response header")
		}
	}
}

func TestRequestIDPropagates(t *testing.T) {
	var logs bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &logs})

	handler := RequestID(logg)(Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "req-1" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
	out := logs.String()
	if !strings.Contains(out, `"request_id":"req-1"`) || !strings.Contains(out, `"status":418`) {
		t.Fatalf("expected request log with id and status, got %s", out)
	}
}

func TestRecovererReturnsInternalError(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := CORS([]string{"https://shop.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", SessionHeader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
		t.Fatalf("expected origin allowed, got %q", got)
	}
}
