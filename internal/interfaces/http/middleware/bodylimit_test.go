package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/commercehub/catalog-sync/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBodyLimitEngine(maxBytes int64) *gin.Engine {
	engine := gin.New()
	engine.Use(BodyLimit(maxBytes))
	engine.POST("/api/v1/import/runs", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusAccepted)
	})
	return engine
}

func TestBodyLimitAllowsSmallBody(t *testing.T) {
	engine := newBodyLimitEngine(64)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/runs", strings.NewReader(`{"source":"d365"}`))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestBodyLimitRejectsDeclaredOversize(t *testing.T) {
	engine := newBodyLimitEngine(16)

	body := strings.Repeat("x", 64)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/runs", strings.NewReader(body))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
}

func TestBodyLimitCapsStreamedBody(t *testing.T) {
	engine := newBodyLimitEngine(16)

	// No Content-Length, so the declared-size check cannot fire and the
	// MaxBytesReader has to stop the read.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/runs", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
