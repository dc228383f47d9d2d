package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func runReadiness(t *testing.T, deps ...Dependency) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := NewReadinessHandler(deps...).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, decode(t, rec)
}

func TestHealthHandler_Liveness(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })

	rec, resp := runReadiness(t,
		Dependency{Name: "mongodb", Pinger: ok},
		Dependency{Name: "redis", Pinger: nil},
	)

	if rec.Code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("expected ok/200, got %d %v", rec.Code, resp)
	}
	deps := resp["dependencies"].(map[string]any)
	if deps["mongodb"].(map[string]any)["status"] != "ok" {
		t.Fatalf("unexpected mongodb status: %v", deps["mongodb"])
	}
	if deps["redis"].(map[string]any)["status"] != "disabled" {
		t.Fatalf("unconfigured stores must report disabled: %v", deps["redis"])
	}
}

func TestReadiness_Degraded(t *testing.T) {
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	rec, resp := runReadiness(t, Dependency{Name: "redis", Pinger: down})

	if rec.Code != http.StatusServiceUnavailable || resp["status"] != "degraded" {
		t.Fatalf("expected degraded/503, got %d %v", rec.Code, resp)
	}
	redis := resp["dependencies"].(map[string]any)["redis"].(map[string]any)
	if redis["status"] != "unhealthy" || redis["error"] != "connection refused" {
		t.Fatalf("unexpected redis status: %v", redis)
	}
}
