package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newIdempotencyRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { store.Close() })

	router := gin.New()
	router.Use(Idempotency(store, zap.NewNop()))
	router.POST("/invoices", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"created": true})
	})
	router.GET("/invoices", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router
}

func postInvoice(router *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware(t *testing.T) {
	t.Run("replayed key is rejected with conflict", func(t *testing.T) {
		router := newIdempotencyRouter(t)

		first := postInvoice(router, "abc-123")
		assert.Equal(t, http.StatusCreated, first.Code)

		second := postInvoice(router, "abc-123")
		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("different keys both pass", func(t *testing.T) {
		router := newIdempotencyRouter(t)

		assert.Equal(t, http.StatusCreated, postInvoice(router, "key-1").Code)
		assert.Equal(t, http.StatusCreated, postInvoice(router, "key-2").Code)
	})

	t.Run("requests without a key always pass", func(t *testing.T) {
		router := newIdempotencyRouter(t)

		assert.Equal(t, http.StatusCreated, postInvoice(router, "").Code)
		assert.Equal(t, http.StatusCreated, postInvoice(router, "").Code)
	})

	t.Run("non-POST methods are ignored", func(t *testing.T) {
		router := newIdempotencyRouter(t)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
			req.Header.Set(IdempotencyKeyHeader, "read-key")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}
