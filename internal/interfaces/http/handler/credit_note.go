package handler

import (
	billingapp "github.com/facturio/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreditNoteHandler exposes the credit note lifecycle over HTTP.
type CreditNoteHandler struct {
	BaseHandler
	creditNotes *billingapp.CreditNoteService
}

// NewCreditNoteHandler creates a new CreditNoteHandler
func NewCreditNoteHandler(creditNotes *billingapp.CreditNoteService) *CreditNoteHandler {
	return &CreditNoteHandler{creditNotes: creditNotes}
}

// Create opens a draft credit note.
// POST /api/v1/credit-notes
func (h *CreditNoteHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req billingapp.CreateCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	note, err := h.creditNotes.CreateCreditNote(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}

// Get returns one credit note.
// GET /api/v1/credit-notes/:id
func (h *CreditNoteHandler) Get(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.creditNotes.GetCreditNote)
}

// List returns a page of credit notes.
// GET /api/v1/credit-notes
func (h *CreditNoteHandler) List(c *gin.Context) {
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

	page, err := h.creditNotes.ListCreditNotes(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Send emails the credit note and moves it to sent.
// POST /api/v1/credit-notes/:id/send
func (h *CreditNoteHandler) Send(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.creditNotes.SendCreditNote)
}

// ApplyRequest names the invoice a credit note is applied against.
type ApplyRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
}

// Apply applies the credit note against an invoice.
// POST /api/v1/credit-notes/:id/apply
func (h *CreditNoteHandler) Apply(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid credit note ID")
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	note, err := h.creditNotes.ApplyCreditNote(c.Request.Context(), organizationID, id, req.InvoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// Cancel cancels the credit note.
// POST /api/v1/credit-notes/:id/cancel
func (h *CreditNoteHandler) Cancel(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.creditNotes.CancelCreditNote)
}

// Delete removes a draft credit note.
// DELETE /api/v1/credit-notes/:id
func (h *CreditNoteHandler) Delete(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid credit note ID")
		return
	}

	if err := h.creditNotes.DeleteCreditNote(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
