package handler

import (
	billingapp "github.com/facturio/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// QuoteHandler exposes the quote lifecycle over HTTP.
type QuoteHandler struct {
	BaseHandler
	quotes *billingapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quotes *billingapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// Create opens a draft quote.
// POST /api/v1/quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req billingapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	quote, err := h.quotes.CreateQuote(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quote)
}

// Get returns one quote.
// GET /api/v1/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.quotes.GetQuote)
}

// List returns a page of quotes.
// GET /api/v1/quotes
func (h *QuoteHandler) List(c *gin.Context) {
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

	page, err := h.quotes.ListQuotes(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Send emails the quote and moves it to sent.
// POST /api/v1/quotes/:id/send
func (h *QuoteHandler) Send(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.quotes.SendQuote)
}

// Approve marks a sent quote as approved.
// POST /api/v1/quotes/:id/approve
func (h *QuoteHandler) Approve(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.quotes.ApproveQuote)
}

// Accept marks the quote as accepted by the client.
// POST /api/v1/quotes/:id/accept
func (h *QuoteHandler) Accept(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.quotes.AcceptQuote)
}

// Reject marks the quote as rejected.
// POST /api/v1/quotes/:id/reject
func (h *QuoteHandler) Reject(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.quotes.RejectQuote)
}

// Cancel cancels the quote.
// POST /api/v1/quotes/:id/cancel
func (h *QuoteHandler) Cancel(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.quotes.CancelQuote)
}

// Convert turns an accepted quote into a draft invoice.
// POST /api/v1/quotes/:id/convert
func (h *QuoteHandler) Convert(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	invoice, err := h.quotes.ConvertQuoteToInvoice(c.Request.Context(), organizationID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Delete removes a draft quote.
// DELETE /api/v1/quotes/:id
func (h *QuoteHandler) Delete(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	if err := h.quotes.DeleteQuote(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
