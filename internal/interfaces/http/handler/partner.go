package handler

import (
	partnerapp "github.com/facturio/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// PartnerHandler exposes clients and suppliers over HTTP.
type PartnerHandler struct {
	BaseHandler
	partners *partnerapp.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partners *partnerapp.PartnerService) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

// CreateClient registers a client.
// POST /api/v1/clients
func (h *PartnerHandler) CreateClient(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req partnerapp.UpsertClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	client, err := h.partners.CreateClient(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// UpdateClient replaces a client's contact details.
// PUT /api/v1/clients/:id
func (h *PartnerHandler) UpdateClient(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	var req partnerapp.UpsertClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	client, err := h.partners.UpdateClient(c.Request.Context(), organizationID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// GetClient returns one client.
// GET /api/v1/clients/:id
func (h *PartnerHandler) GetClient(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.partners.GetClient)
}

// ListClients returns the organization's active clients.
// GET /api/v1/clients
func (h *PartnerHandler) ListClients(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	clients, err := h.partners.ListClients(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, clients)
}

// ArchiveClient hides a client from active lists.
// POST /api/v1/clients/:id/archive
func (h *PartnerHandler) ArchiveClient(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	if err := h.partners.ArchiveClient(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateSupplier registers a supplier.
// POST /api/v1/suppliers
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req partnerapp.UpsertSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	supplier, err := h.partners.CreateSupplier(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// UpdateSupplier replaces a supplier's contact details.
// PUT /api/v1/suppliers/:id
func (h *PartnerHandler) UpdateSupplier(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req partnerapp.UpsertSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	supplier, err := h.partners.UpdateSupplier(c.Request.Context(), organizationID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// GetSupplier returns one supplier.
// GET /api/v1/suppliers/:id
func (h *PartnerHandler) GetSupplier(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.partners.GetSupplier)
}

// ListSuppliers returns the organization's active suppliers.
// GET /api/v1/suppliers
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	suppliers, err := h.partners.ListSuppliers(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// ArchiveSupplier hides a supplier from active lists.
// POST /api/v1/suppliers/:id/archive
func (h *PartnerHandler) ArchiveSupplier(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.partners.ArchiveSupplier(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
