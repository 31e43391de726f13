package handler

import (
	numberingapp "github.com/facturio/backend/internal/application/numbering"
	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/gin-gonic/gin"
)

// NumberingHandler manages document numbering policies over HTTP.
type NumberingHandler struct {
	BaseHandler
	policies *numberingapp.PolicyService
}

// NewNumberingHandler creates a new NumberingHandler
func NewNumberingHandler(policies *numberingapp.PolicyService) *NumberingHandler {
	return &NumberingHandler{policies: policies}
}

// List returns all numbering policies of the organization.
// GET /api/v1/numbering-policies
func (h *NumberingHandler) List(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	policies, err := h.policies.ListPolicies(c.Request.Context(), organizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, policies)
}

// Get returns the policy for one document type.
// GET /api/v1/numbering-policies/:documentType
func (h *NumberingHandler) Get(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	docType := numbering.DocumentType(c.Param("documentType"))
	policy, err := h.policies.GetPolicy(c.Request.Context(), organizationID, docType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, policy)
}

// Upsert creates or replaces the policy for a document type.
// PUT /api/v1/numbering-policies
func (h *NumberingHandler) Upsert(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req numberingapp.UpsertPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	policy, err := h.policies.UpsertPolicy(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, policy)
}

// Delete removes a numbering policy; generation falls back to the
// built-in defaults for its document type.
// DELETE /api/v1/numbering-policies/:id
func (h *NumberingHandler) Delete(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid policy ID")
		return
	}

	if err := h.policies.DeletePolicy(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
