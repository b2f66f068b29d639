package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiter_BurstThenReject(t *testing.T) {
	limiter := NewKeyedLimiter(60, 2, time.Hour)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	assert.True(t, limiter.Allow("user:1"))
	assert.True(t, limiter.Allow("user:1"))
	assert.False(t, limiter.Allow("user:1"))

	// другой ключ имеет собственный bucket
	assert.True(t, limiter.Allow("user:2"))
}

func TestKeyedLimiter_RefillsOverTime(t *testing.T) {
	limiter := NewKeyedLimiter(60, 1, time.Hour)
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	assert.True(t, limiter.Allow("k"))
	assert.False(t, limiter.Allow("k"))

	current = current.Add(time.Second)
	assert.True(t, limiter.Allow("k"))
}

func TestKeyedLimiter_CollectsIdleKeys(t *testing.T) {
	limiter := NewKeyedLimiter(60, 1, time.Minute)
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	limiter.Allow("a")
	limiter.Allow("b")
	assert.Equal(t, 2, limiter.Size())

	current = current.Add(2 * time.Minute)
	limiter.Allow("c")

	assert.Equal(t, 1, limiter.Size())
}

func TestMiddleware_Returns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewKeyedLimiter(60, 1, time.Hour)

	router := gin.New()
	router.POST("/toggle", limiter.Middleware(UserOrIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/toggle", nil))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/toggle", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "ip:10.0.0.1", UserOrIP(c))

	c.Set("user_id", "u1")
	assert.Equal(t, "user:u1", UserOrIP(c))
}
