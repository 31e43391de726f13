package middleware

import (
	"net/http"
	"strings"

	"github.com/facturio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Organization context keys
const (
	OrganizationIDKey     = "organization_id"
	OrganizationHeaderKey = "X-Organization-ID"
)

// OrganizationMiddlewareConfig configures organization scoping.
type OrganizationMiddlewareConfig struct {
	// HeaderEnabled allows the X-Organization-ID header as a fallback
	// when no JWT claim is present (development, service-to-service).
	HeaderEnabled bool
	// SkipPaths bypass organization resolution.
	SkipPaths []string
	// Required rejects requests without an organization context.
	Required bool
	Logger   *zap.Logger
}

// DefaultOrganizationConfig requires an organization on every request
// except health endpoints and auth.
func DefaultOrganizationConfig() OrganizationMiddlewareConfig {
	return OrganizationMiddlewareConfig{
		HeaderEnabled: true,
		SkipPaths: []string{
			"/health",
			"/ready",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Required: true,
	}
}

// OrganizationMiddleware resolves the requesting organization. JWT
// claims win over the header.
func OrganizationMiddleware() gin.HandlerFunc {
	return OrganizationMiddlewareWithConfig(DefaultOrganizationConfig())
}

// OrganizationMiddlewareWithConfig returns the middleware with custom
// configuration.
func OrganizationMiddlewareWithConfig(cfg OrganizationMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		organizationID := GetJWTOrganizationID(c)
		if organizationID == "" && cfg.HeaderEnabled {
			organizationID = c.GetHeader(OrganizationHeaderKey)
		}

		if organizationID == "" {
			if cfg.Required {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					dto.NewErrorResponse(dto.ErrCodeBadRequest, "Organization context is required"))
				return
			}
			c.Next()
			return
		}

		parsed, err := uuid.Parse(organizationID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("invalid organization id",
					zap.String("organization_id", organizationID),
					zap.String("path", path),
				)
			}
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid organization ID"))
			return
		}

		c.Set(OrganizationIDKey, parsed)
		c.Next()
	}
}

// GetOrganizationID returns the resolved organization ID, or uuid.Nil
// when the request carries no organization context.
func GetOrganizationID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(OrganizationIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
