package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aq2208/gorder-storefront/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactJSON(t *testing.T) {
	in := `{"delivery_address":"12 MG Road","Phone":"999","state":"goa","items":[{"session_token":"x","id":"chicken"}]}`
	var got map[string]any
	require.NoError(t, json.Unmarshal(redactJSON([]byte(in)), &got))

	assert.Equal(t, redacted, got["delivery_address"])
	assert.Equal(t, redacted, got["Phone"])
	assert.Equal(t, "goa", got["state"])
	item := got["items"].([]any)[0].(map[string]any)
	assert.Equal(t, redacted, item["session_token"])
	assert.Equal(t, "chicken", item["id"])

	assert.Equal(t, "plain text", string(redactJSON([]byte("plain text"))))
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, levelFor("/healthz", 200))
	assert.Equal(t, slog.LevelInfo, levelFor("/api/cart", 200))
	assert.Equal(t, slog.LevelWarn, levelFor("/api/cart", 404))
	assert.Equal(t, slog.LevelError, levelFor("/healthz", 503))
}

func TestLogging_PassesBodyThroughAndRedactsLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seen []byte
	r := gin.New()
	r.Use(Logging(base))
	r.POST("/api/orders", func(c *gin.Context) {
		seen, _ = io.ReadAll(c.Request.Body)
		logging.FromCtx(c.Request.Context()).Info("handler ran")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_checkout"})
	})

	body := `{"phone":"9999999999","state":"goa"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, body, string(seen))
	assert.Equal(t, "req-1", w.Header().Get("X-Request-Id"))

	line := logs.String()
	assert.Contains(t, line, `"level":"WARN"`)
	assert.Contains(t, line, `"req_id":"req-1"`)
	assert.Regexp(t, `"msg":"handler ran"[^\n]*"req_id":"req-1"`, line)
	assert.Contains(t, line, "invalid_checkout")
	assert.NotContains(t, line, "9999999999")
}

func TestLogging_GeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logging(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, w.Header().Get("X-Request-Id"), 36)
}
