package middleware

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"subcity/internal/repository"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})

	t.Run("should replace malformed request ids", func(t *testing.T) {
		for _, bad := range []string{"id with spaces", "<script>", "a/b", strings.Repeat("a", maxRequestIDLen+1)} {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set(RequestIDHeader, bad)

			resp, err := app.Test(req)
			require.NoError(t, err)

			got := resp.Header.Get(RequestIDHeader)
			assert.NotEqual(t, bad, got)
			_, err = uuid.Parse(got)
			assert.NoError(t, err, "replacement for %q should be a UUID", bad)
		}
	})

	t.Run("accepts ids at the length cap", func(t *testing.T) {
		id := strings.Repeat("a", maxRequestIDLen)
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, id)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
	})
}

func TestRequestIDFrom(t *testing.T) {
	app := fiber.New()
	app.Get("/bare", func(c *fiber.Ctx) error {
		return c.SendString("[" + RequestIDFrom(c) + "]")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/bare", nil))
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	assert.Equal(t, "[]", buf.String())
}

func TestActor(t *testing.T) {
	app := fiber.New()
	app.Use(Actor())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(repository.ActorFrom(c.UserContext()))
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"header sets actor", "Meron", "Meron"},
		{"missing header uses default", "", repository.DefaultActor},
		{"blank header uses default", "   ", repository.DefaultActor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set(ActorHeader, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(resp.Body)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	app := fiber.New()

	app.Use(RequestID())
	app.Use(Logger(zap.New(core)))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "down")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "http_request", entry.Message)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.NotEmpty(t, fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/test", fields["path"])
	assert.Equal(t, int64(fiber.StatusAccepted), fields["status"])
	assert.Contains(t, fields, "latency")

	_, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
	assert.Equal(t, int64(fiber.StatusServiceUnavailable), logs.All()[1].ContextMap()["status"])
}
