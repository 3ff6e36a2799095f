package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLoggerConfig(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, loggerConfig(true, "").Level.Level())
	assert.Equal(t, zapcore.DebugLevel, loggerConfig(false, "").Level.Level())
	assert.Equal(t, zapcore.WarnLevel, loggerConfig(false, "warn").Level.Level())
	assert.Equal(t, zapcore.InfoLevel, loggerConfig(true, "shouting").Level.Level())
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func TestCheckHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	checkHealth(context.Background(), redisPinger{client}, failingPinger{})
	status := GetHealthStatus()
	assert.True(t, status.Redis)
	assert.False(t, status.Mongo)
	assert.False(t, status.Healthy())
	assert.False(t, status.CheckedAt.IsZero())

	checkHealth(context.Background(), nil, nil)
	assert.False(t, GetHealthStatus().Redis)
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Logger = zap.NewNop()

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}
