package logging

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestCtxLogger(t *testing.T) {
	l := slog.New(slog.NewTextHandler(httptest.NewRecorder(), nil))
	ctx := WithCtx(context.Background(), l)
	assert.Same(t, l, FromCtx(ctx))
	assert.NotNil(t, FromCtx(context.Background()))
}

func TestGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Same(t, Base(), From(c))

	l := New("test")
	With(c, l)
	assert.Same(t, l, From(c))
}
