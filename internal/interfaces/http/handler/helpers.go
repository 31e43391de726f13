package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseUUIDParam parses an arbitrary UUID path parameter.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// transitionFunc is a status transition on a document identified by
// organization and document ID.
type transitionFunc[T any] func(ctx context.Context, organizationID, id uuid.UUID) (*T, error)

// runTransition resolves the organization and :id parameter, runs the
// transition and writes the updated document. Every document status
// endpoint shares this shape.
func runTransition[T any](h *BaseHandler, c *gin.Context, action transitionFunc[T]) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	result, err := action(c.Request.Context(), organizationID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
