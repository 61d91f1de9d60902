package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/wows-catalog/internal/logger"
	"github.com/Shimizu-Technology/wows-catalog/internal/metrics"
)

func TestRequestIDAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Service: "test", Output: &buf})
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r := gin.New()
	r.Use(RequestID(log), AccessLog(log, m))
	r.GET("/wows/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	t.Run("mints an id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wows/9", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)

		var line map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
		assert.Equal(t, id, line["request_id"])
		assert.Equal(t, "/wows/:id", line["route"])
		assert.Equal(t, "warn", line["level"])
		assert.EqualValues(t, 404, line["status"])
	})

	t.Run("keeps an incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/wows/9", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/wows/9", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})

	t.Run("unmatched routes share a label", func(t *testing.T) {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	})

	// GET /wows/:id 404 and GET unmatched 404.
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "http_requests_total"))
}
