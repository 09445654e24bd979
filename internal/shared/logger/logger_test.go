package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(&LogConfig{Level: "debug", Environment: "development", ServiceName: "test"}))
	assert.True(t, GetLogger().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, InitLogger(&LogConfig{Level: "warn", Environment: "production", ServiceName: "test"}))
	assert.False(t, GetLogger().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, GetLogger().Core().Enabled(zapcore.WarnLevel))
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	assert.Equal(t, GetLogger(), FromContext(context.Background()))

	scoped := zap.NewNop().With(zap.String("k", "v"))
	ctx := WithContext(context.Background(), scoped)
	assert.Equal(t, scoped, FromContext(ctx))
}

func TestMiddleware_AttachesRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log = zap.New(core)
	t.Cleanup(func() { log = zap.NewNop() })

	var seen *zap.Logger
	handler := middleware.RequestID(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/suppliers", nil))

	require.NotNil(t, seen)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "HTTP Request", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/suppliers", fields["path"])
	assert.NotEmpty(t, fields["request_id"])
}
