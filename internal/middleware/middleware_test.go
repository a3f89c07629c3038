package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"go-cart-catalog/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(buf *bytes.Buffer) *fiber.App {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: buf})
	app := fiber.New()
	app.Use(RequestID(logg), Logging(logg))
	app.Get("/ok", func(c *fiber.Ctx) error {
		logg.Info(c.UserContext(), "inside handler")
		return c.SendString("ok")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return app
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestRequestIDEchoedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	app := newApp(&buf)

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(requestIDHeader, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(requestIDHeader))

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "inside handler", lines[0]["message"])
	assert.Equal(t, "req-123", lines[0]["request_id"])
	assert.Equal(t, "/ok", lines[0]["path"])
	assert.Equal(t, "request.complete", lines[1]["message"])
	assert.EqualValues(t, 200, lines[1]["status"])
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	var buf bytes.Buffer
	app := newApp(&buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Len(t, resp.Header.Get(requestIDHeader), 36)

	lines := logLines(t, &buf)
	require.NotEmpty(t, lines)
	assert.EqualValues(t, 404, lines[len(lines)-1]["status"])
}
