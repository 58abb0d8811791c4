package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/persistence"
)

type stubDB struct {
	pingErr error
}

func (s stubDB) Ping(context.Context) error { return s.pingErr }

func (s stubDB) Stats() (persistence.ConnectionStats, error) {
	return persistence.ConnectionStats{OpenConnections: 2}, nil
}

func TestHealthHandler(t *testing.T) {
	newRouter := func(db DatabaseChecker) *gin.Engine {
		h := NewHealthHandler(db)
		router := gin.New()
		router.GET("/", h.Banner)
		router.GET("/health", h.Health)
		return router
	}

	t.Run("banner", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(stubDB{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "OK", body["status"])
		assert.Equal(t, "Backend API", body["service"])
	})

	t.Run("healthy", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(stubDB{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "healthy", body["status"])
		assert.Contains(t, body, "connections")
	})

	t.Run("database down", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(stubDB{pingErr: errors.New("refused")}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", decodeBody(t, w)["status"])
	})
}
