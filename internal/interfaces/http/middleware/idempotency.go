package middleware

import (
	"net/http"
	"time"

	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/facturio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen key for a mutation.
const IdempotencyKeyHeader = "X-Idempotency-Key"

// idempotencyTTL is how long a claimed key blocks replays.
const idempotencyTTL = 24 * time.Hour

// Idempotency absorbs double-submitted mutations. Requests without the key
// header pass through untouched; a replayed key within the TTL window is
// rejected with a conflict so the client never creates the same document
// twice. A store outage lets the request through, availability wins over
// replay protection.
func Idempotency(store cache.IdempotencyStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scoped := GetOrganizationID(c).String() + ":" + c.FullPath() + ":" + key

		acquired, err := store.Acquire(c.Request.Context(), scoped, idempotencyTTL)
		if err != nil {
			if logger != nil {
				logger.Warn("idempotency store unavailable, letting request through",
					zap.String("path", c.FullPath()),
					zap.Error(err))
			}
			c.Next()
			return
		}

		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponse(dto.ErrCodeConflict, "Request with this idempotency key was already processed"))
			return
		}

		c.Next()
	}
}
