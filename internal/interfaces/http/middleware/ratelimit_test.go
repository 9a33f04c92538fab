package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/commercehub/catalog-sync/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateLimitEngine(limiter *RateLimiter) *gin.Engine {
	engine := gin.New()
	engine.Use(RateLimit(limiter))
	engine.POST("/api/v1/import/runs", func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})
	return engine
}

func triggerRun(engine *gin.Engine, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/runs", nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimitAllowsWithinBudget(t *testing.T) {
	engine := newRateLimitEngine(NewRateLimiter(3, time.Minute))

	for i := 0; i < 3; i++ {
		w := triggerRun(engine, "10.0.0.1:4000")
		assert.Equal(t, http.StatusAccepted, w.Code)
	}
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	engine := newRateLimitEngine(NewRateLimiter(2, time.Minute))

	triggerRun(engine, "10.0.0.1:4000")
	triggerRun(engine, "10.0.0.1:4000")
	w := triggerRun(engine, "10.0.0.1:4000")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeRateLimited, resp.Error.Code)
}

func TestRateLimitHeaders(t *testing.T) {
	engine := newRateLimitEngine(NewRateLimiter(5, time.Minute))

	w := triggerRun(engine, "10.0.0.1:4000")
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))

	w = triggerRun(engine, "10.0.0.1:4000")
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitPerClient(t *testing.T) {
	engine := newRateLimitEngine(NewRateLimiter(1, time.Minute))

	assert.Equal(t, http.StatusAccepted, triggerRun(engine, "10.0.0.1:4000").Code)
	assert.Equal(t, http.StatusTooManyRequests, triggerRun(engine, "10.0.0.1:4000").Code)

	// A different client has its own budget.
	assert.Equal(t, http.StatusAccepted, triggerRun(engine, "10.0.0.2:4000").Code)
}

func TestRateLimitWindowReset(t *testing.T) {
	limiter := NewRateLimiter(1, 20*time.Millisecond)
	engine := newRateLimitEngine(limiter)

	assert.Equal(t, http.StatusAccepted, triggerRun(engine, "10.0.0.1:4000").Code)
	assert.Equal(t, http.StatusTooManyRequests, triggerRun(engine, "10.0.0.1:4000").Code)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, http.StatusAccepted, triggerRun(engine, "10.0.0.1:4000").Code)
}
