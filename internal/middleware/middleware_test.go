package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		for _, s := range v {
			req.Header.Add(k, s)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDMiddleware_Generates(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	var seen string
	r.GET("/test", func(c *gin.Context) {
		seen = c.GetString(ContextKeyRequestID)
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/test", nil)
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)
}

func TestRequestIDMiddleware_Propagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/test", http.Header{RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(LoggerMiddleware(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	serve(r, http.MethodGet, "/ok", nil)
	serve(r, http.MethodGet, "/bad", nil)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusBadRequest, entries[1].ContextMap()["status"])
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/test", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/api/route", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/api/route", http.Header{
		"Origin":                        {"http://client.test"},
		"Access-Control-Request-Method": {"GET"},
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func newTimeoutRouter(d time.Duration, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Timeout(d))
	r.GET("/test", handler)
	return r
}

func TestTimeout_HandlerCompletesInTime(t *testing.T) {
	r := newTimeoutRouter(100*time.Millisecond, func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := serve(r, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeout_503WhenHandlerExitsWithoutWriting(t *testing.T) {
	r := newTimeoutRouter(5*time.Millisecond, func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := serve(r, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTimeout_HandlerResponseNotOverwritten(t *testing.T) {
	r := newTimeoutRouter(5*time.Millisecond, func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"done": true})
		time.Sleep(20 * time.Millisecond)
	})

	w := serve(r, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
}
