package handler

import (
	taxapp "github.com/facturio/backend/internal/application/tax"
	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TaxHandler manages organization-defined taxes over HTTP.
type TaxHandler struct {
	BaseHandler
	taxes *taxapp.TaxService
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(taxes *taxapp.TaxService) *TaxHandler {
	return &TaxHandler{taxes: taxes}
}

// Create defines a new custom tax.
// POST /api/v1/taxes
func (h *TaxHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req taxapp.CreateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	created, err := h.taxes.CreateTax(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// List returns all taxes of the organization, active or not.
// GET /api/v1/taxes
func (h *TaxHandler) List(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	taxes, err := h.taxes.ListTaxes(c.Request.Context(), organizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, taxes)
}

// SetActiveRequest toggles whether a tax participates in computations.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive enables or disables a tax.
// PATCH /api/v1/taxes/:id/active
func (h *TaxHandler) SetActive(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid tax ID")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	updated, err := h.taxes.SetActive(c.Request.Context(), organizationID, id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// ComputeRequest asks for the tax breakdown of a document amount.
type ComputeRequest struct {
	DocumentType numbering.DocumentType `json:"document_type" binding:"required"`
	Base         decimal.Decimal        `json:"base" binding:"required"`
}

// Compute returns the applicable tax lines and total for a base amount.
// POST /api/v1/taxes/compute
func (h *TaxHandler) Compute(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	computation, err := h.taxes.ComputeForDocument(c.Request.Context(), organizationID, req.DocumentType, req.Base)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, computation)
}

// Delete removes a tax definition.
// DELETE /api/v1/taxes/:id
func (h *TaxHandler) Delete(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid tax ID")
		return
	}

	if err := h.taxes.DeleteTax(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
