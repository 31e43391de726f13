package handler

import (
	"context"

	inventoryapp "github.com/facturio/backend/internal/application/inventory"
	"github.com/facturio/backend/internal/domain/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// stockAdjustment is a stock movement on one item.
type stockAdjustment func(ctx context.Context, organizationID, itemID uuid.UUID, req inventoryapp.AdjustStockRequest) (*inventory.StockItem, error)

// StockHandler exposes the stock item catalog over HTTP.
type StockHandler struct {
	BaseHandler
	stock *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stock *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stock: stock}
}

// Create registers a stock item.
// POST /api/v1/stock-items
func (h *StockHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req inventoryapp.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.stock.CreateStockItem(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Get returns one stock item.
// GET /api/v1/stock-items/:id
func (h *StockHandler) Get(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.stock.GetStockItem)
}

// List returns the organization's stock items.
// GET /api/v1/stock-items
func (h *StockHandler) List(c *gin.Context) {
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

	items, err := h.stock.ListStockItems(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListLowStock returns items at or under their minimum quantity.
// GET /api/v1/stock-items/low
func (h *StockHandler) ListLowStock(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	items, err := h.stock.ListLowStock(c.Request.Context(), organizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Receive adds stock to an item.
// POST /api/v1/stock-items/:id/receive
func (h *StockHandler) Receive(c *gin.Context) {
	h.adjust(c, h.stock.ReceiveStock)
}

// Withdraw removes stock from an item.
// POST /api/v1/stock-items/:id/withdraw
func (h *StockHandler) Withdraw(c *gin.Context) {
	h.adjust(c, h.stock.WithdrawStock)
}

// MinQuantityRequest sets the low-stock threshold.
type MinQuantityRequest struct {
	MinQuantity decimal.Decimal `json:"min_quantity" binding:"required"`
}

// SetMinQuantity updates the low-stock threshold of an item.
// PUT /api/v1/stock-items/:id/min-quantity
func (h *StockHandler) SetMinQuantity(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}

	var req MinQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.stock.SetMinQuantity(c.Request.Context(), organizationID, id, req.MinQuantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete removes a stock item.
// DELETE /api/v1/stock-items/:id
func (h *StockHandler) Delete(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}

	if err := h.stock.DeleteStockItem(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *StockHandler) adjust(c *gin.Context, action stockAdjustment) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := action(c.Request.Context(), organizationID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
