package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/beacon/pkg/health"
)

func TestLiveness(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)

	health.Liveness()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	healthy := func(ctx context.Context) error { return nil }
	unhealthy := func(ctx context.Context) error { return errors.New("db down") }

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)

		health.Readiness()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("all healthy", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)

		health.Readiness(healthy, healthy)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("one failing check fails the whole probe", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)

		health.Readiness(healthy, unhealthy, healthy)(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "db down")
	})
}
