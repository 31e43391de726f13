package handler

import (
	billingapp "github.com/facturio/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler exposes the purchase order lifecycle over HTTP.
type PurchaseOrderHandler struct {
	BaseHandler
	orders *billingapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orders *billingapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders}
}

// Create opens a purchase order in brouillon.
// POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req billingapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orders.CreatePurchaseOrder(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get returns one purchase order.
// GET /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.orders.GetPurchaseOrder)
}

// List returns a page of purchase orders.
// GET /api/v1/purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
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
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.orders.ListPurchaseOrders(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Submit moves the order from brouillon to en_attente.
// POST /api/v1/purchase-orders/:id/submit
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.orders.SubmitPurchaseOrder)
}

// Validate moves the order from en_attente to validee.
// POST /api/v1/purchase-orders/:id/validate
func (h *PurchaseOrderHandler) Validate(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.orders.ValidatePurchaseOrder)
}

// SendEmail emails the validated order to its supplier.
// POST /api/v1/purchase-orders/:id/send
func (h *PurchaseOrderHandler) SendEmail(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}

	if err := h.orders.SendPurchaseOrderEmail(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"sent": true})
}

// Receive marks the order as livree and restocks linked items.
// POST /api/v1/purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.orders.ReceivePurchaseOrder)
}

// Cancel moves the order to annulee.
// POST /api/v1/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.orders.CancelPurchaseOrder)
}

// Delete removes a brouillon order.
// DELETE /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}

	if err := h.orders.DeletePurchaseOrder(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
