package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrometheus(t *testing.T) (*PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)
	return m, reg
}

func TestPrometheusMiddleware(t *testing.T) {
	promMiddleware, _ := newTestPrometheus(t)

	app := fiber.New()
	app.Use(promMiddleware.Handler())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Delete("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})

	for _, r := range []struct{ method, path string }{{"GET", "/test"}, {"DELETE", "/test"}, {"GET", "/error"}} {
		_, err := app.Test(httptest.NewRequest(r.method, r.path, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("GET", "/test", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("DELETE", "/test", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("GET", "/error", "400")))
}

func TestPrometheusMiddleware_ExcludeMetrics(t *testing.T) {
	promMiddleware, reg := newTestPrometheus(t)

	app := fiber.New()
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		assert.Empty(t, mf.GetMetric(), mf.GetName())
	}
}

func TestPrometheusMiddleware_PathPattern(t *testing.T) {
	promMiddleware, _ := newTestPrometheus(t)

	app := fiber.New()
	app.Use(promMiddleware.Handler())
	app.Get("/api/employees/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/api/employees/123", nil))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("GET", "/api/employees/:id", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(promMiddleware.requestDuration))
}

func TestPrometheusMiddleware_Unmatched(t *testing.T) {
	promMiddleware, _ := newTestPrometheus(t)

	app := fiber.New()
	app.Use(promMiddleware.Handler())

	_, err := app.Test(httptest.NewRequest("GET", "/nope/42", nil))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("GET", "unmatched", "404")))
}

func TestNewPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}
