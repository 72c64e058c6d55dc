package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func TestHealthLive(t *testing.T) {
	resp := httptest.NewRecorder()
	HealthLive(testConfig()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Cart-Env"); got != "test" {
		t.Fatalf("unexpected env header %q", got)
	}
}

func TestHealthReadyReportsChecks(t *testing.T) {
	handler := HealthReady(testConfig(), nil,
		ReadinessCheck{Name: "redis", Pinger: stubPinger{}},
		ReadinessCheck{Name: "database"},
	)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data["status"] != "ready" || envelope.Data["redis"] != "ok" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
	if _, ok := envelope.Data["database"]; ok {
		t.Fatalf("nil pinger should be skipped")
	}
}

func TestHealthReadyFailsOnDependency(t *testing.T) {
	handler := HealthReady(testConfig(), nil, ReadinessCheck{Name: "redis", Pinger: stubPinger{err: errors.New("dial tcp: refused")}})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	var envelope responses.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeDependency) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}
