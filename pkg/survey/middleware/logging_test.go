package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(middleware.NewLogger(buf, "info", "test")))
	r.GET("/v1/responses", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestRequestLogger_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(&buf)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/responses?limit=5", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	r.ServeHTTP(w, req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "test", line["service"])
	assert.Equal(t, "/v1/responses", line["route"])
	assert.EqualValues(t, 200, line["status"])
	assert.NotContains(t, buf.String(), "203.0.113.7")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), line["request_id"])
}

func TestRequestLogger_KeepsIncomingRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(&buf)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc123", w.Header().Get(middleware.RequestIDHeader))
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "unmatched", line["route"])
}
