package middleware

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acehadwer/storefront-backend/config"
	"github.com/acehadwer/storefront-backend/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())

	var fromContext string
	router.GET("/ping", func(c *gin.Context) {
		fromContext = c.GetString("request_id")
		assert.NotNil(t, GetLoggerFromContext(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, fromContext)
	assert.Equal(t, fromContext, w.Header().Get(RequestIDHeader))

	// an incoming id is propagated
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestAuthMiddleware_Authenticate_RevokedToken(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	require.NoError(t, redis.Init(&config.RedisConfig{Host: host, Port: port, Prefix: "test"}))
	t.Cleanup(func() { _ = redis.Close() })

	router, authMiddleware := setupMiddlewareTest()
	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token := generateTestToken(t, 1, "test@example.com", "user")
	send := func() int {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/test", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)
	authMiddleware.Authenticate()(c)
	claims, ok := GetClaims(c)
	require.True(t, ok)

	require.NoError(t, redis.BlacklistToken(context.Background(), claims.ID, time.Minute))
	assert.Equal(t, http.StatusUnauthorized, send())
}
