//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sink := newRecordingSink()

	router := gin.New()
	router.Use(RequestID(), RequestLogger(sink))
	router.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/api/products/missing", nil)
	req.Header.Set(RequestIDHeader, "req-9")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := sink.wait(1, time.Second)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "warn", e.Level)
	assert.Equal(t, "req-9", e.RequestID)
	assert.Equal(t, http.MethodGet, e.Method)
	assert.Equal(t, "/api/products/missing", e.Path)
	assert.Equal(t, http.StatusNotFound, e.StatusCode)
}

func TestRequestLogger_NilSink(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(nil))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() { router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, "info", levelForStatus(http.StatusOK))
	assert.Equal(t, "info", levelForStatus(http.StatusNoContent))
	assert.Equal(t, "warn", levelForStatus(http.StatusUnprocessableEntity))
	assert.Equal(t, "error", levelForStatus(http.StatusServiceUnavailable))
}
