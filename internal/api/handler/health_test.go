package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/health", "", "")

	if err := NewHealthHandler(nil, zerolog.Nop()).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || decode(t, rec)["message"] != "API is running" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantBody   string
	}{
		{name: "no optional deps", checks: map[string]Check{"database": ok}, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "all up", checks: map[string]Check{"database": ok, "redis": ok, "mongodb": ok}, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "redis down", checks: map[string]Check{"database": ok, "redis": down}, wantStatus: http.StatusServiceUnavailable, wantBody: "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/api/health/ready", "", "")

			if err := NewHealthHandler(tc.checks, zerolog.Nop()).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			resp := decode(t, rec)
			if resp["status"] != tc.wantBody {
				t.Fatalf("expected status %q, got %v", tc.wantBody, resp["status"])
			}
			deps, _ := resp["dependencies"].(map[string]any)
			if len(deps) != len(tc.checks) {
				t.Fatalf("expected %d dependencies, got %v", len(tc.checks), deps)
			}
		})
	}
}

func TestHealthHandler_ReadinessHidesCheckErrors(t *testing.T) {
	var logs bytes.Buffer
	down := func(context.Context) error {
		return errors.New("dial tcp 10.0.0.7:6379: connection refused")
	}
	checks := map[string]Check{
		"database": func(context.Context) error { return nil },
		"redis":    down,
	}
	c, rec := newContext(http.MethodGet, "/api/health/ready", "", "")

	if err := NewHealthHandler(checks, zerolog.New(&logs)).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "connection refused") || strings.Contains(body, "10.0.0.7") {
		t.Fatalf("check error leaked into response: %s", body)
	}
	deps, _ := decode(t, rec)["dependencies"].(map[string]any)
	redis, _ := deps["redis"].(map[string]any)
	if len(redis) != 1 || redis["status"] != "unhealthy" {
		t.Fatalf(`expected {"status":"unhealthy"}, got %v`, redis)
	}
	if !strings.Contains(logs.String(), `"dependency":"redis"`) || !strings.Contains(logs.String(), "connection refused") {
		t.Fatalf("expected check failure in logs, got %s", logs.String())
	}
}
