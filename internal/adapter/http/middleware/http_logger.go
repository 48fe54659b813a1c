package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aq2208/gorder-storefront/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	bodyLogLimit = 8 * 1024 // 8KB
	maxBodyBytes = 1 << 20
	redacted     = "***redacted***"
	truncated    = "...truncated..."
)

// quietPaths are polled constantly; they are logged at debug only.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// redactedKeys covers credentials and the shopper's contact details.
var redactedKeys = map[string]bool{
	"password":         true,
	"authorization":    true,
	"token":            true,
	"secret":           true,
	"session_id":       true,
	"session_token":    true,
	"phone":            true,
	"delivery_address": true,
}

// cappedRecorder keeps the first bodyLogLimit bytes of the response.
type cappedRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *cappedRecorder) Write(b []byte) (int, error) {
	if room := bodyLogLimit - w.buf.Len(); room > 0 {
		w.buf.Write(b[:min(len(b), room)])
	}
	return w.ResponseWriter.Write(b)
}

// Logging tags every request with an id, stores a request-scoped slog.Logger in both the gin and
// request contexts, and writes one access line per request. Bodies are logged (redacted) only
// for failed requests, since successful cart and order payloads carry delivery details.
func Logging(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
			c.Request.Header.Set("X-Request-Id", reqID)
		}
		c.Header("X-Request-Id", reqID)

		l := base.With(
			"req_id", reqID,
			"method", c.Request.Method,
			"path", c.FullPath(), // empty when no route matched
			"remote", c.ClientIP(),
		)
		logging.With(c, l)
		c.Request = c.Request.WithContext(logging.WithCtx(c.Request.Context(), l))

		reqBody := bufferJSONBody(c)
		rec := &cappedRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"dur_ms", time.Since(start).Milliseconds(),
			"resp_bytes", c.Writer.Size(),
		}
		if uid := c.GetString(ctxUserID); uid != "" {
			attrs = append(attrs, "user_id", uid)
		}
		if len(c.Params) > 0 {
			attrs = append(attrs, "params", c.Params)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}
		if status >= http.StatusBadRequest {
			if len(reqBody) > 0 {
				attrs = append(attrs, "req_body", loggable(reqBody))
			}
			if strings.Contains(c.Writer.Header().Get("Content-Type"), "application/json") && rec.buf.Len() > 0 {
				attrs = append(attrs, "resp_body", loggable(rec.buf.Bytes()))
			}
		}

		l.Log(c.Request.Context(), levelFor(c.FullPath(), status), "http_request", attrs...)
	}
}

// bufferJSONBody reads a JSON request body and puts the original bytes back for the handlers.
func bufferJSONBody(c *gin.Context) []byte {
	if c.Request.Body == nil || !strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	return raw
}

func levelFor(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case quietPaths[path]:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func loggable(raw []byte) string {
	out := redactJSON(raw)
	if len(out) > bodyLogLimit {
		return string(out[:bodyLogLimit]) + truncated
	}
	return string(out)
}

func redactJSON(raw []byte) []byte {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw // not JSON (or cut off by the recorder)
	}
	b, err := json.Marshal(scrub(v))
	if err != nil {
		return raw
	}
	return b
}

func scrub(x any) any {
	switch v := x.(type) {
	case map[string]any:
		for k, val := range v {
			if redactedKeys[strings.ToLower(k)] {
				v[k] = redacted
				continue
			}
			v[k] = scrub(val)
		}
	case []any:
		for i := range v {
			v[i] = scrub(v[i])
		}
	}
	return x
}
