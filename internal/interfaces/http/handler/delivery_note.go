package handler

import (
	billingapp "github.com/facturio/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// DeliveryNoteHandler exposes the delivery note lifecycle over HTTP.
type DeliveryNoteHandler struct {
	BaseHandler
	notes *billingapp.DeliveryNoteService
}

// NewDeliveryNoteHandler creates a new DeliveryNoteHandler
func NewDeliveryNoteHandler(notes *billingapp.DeliveryNoteService) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{notes: notes}
}

// Create opens a draft delivery note.
// POST /api/v1/delivery-notes
func (h *DeliveryNoteHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req billingapp.CreateDeliveryNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	note, err := h.notes.CreateDeliveryNote(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}

// Get returns one delivery note.
// GET /api/v1/delivery-notes/:id
func (h *DeliveryNoteHandler) Get(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.notes.GetDeliveryNote)
}

// List returns a page of delivery notes.
// GET /api/v1/delivery-notes
func (h *DeliveryNoteHandler) List(c *gin.Context) {
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

	page, err := h.notes.ListDeliveryNotes(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Send emails the delivery note and moves it to sent.
// POST /api/v1/delivery-notes/:id/send
func (h *DeliveryNoteHandler) Send(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.notes.SendDeliveryNote)
}

// MarkDelivered marks the goods as delivered.
// POST /api/v1/delivery-notes/:id/deliver
func (h *DeliveryNoteHandler) MarkDelivered(c *gin.Context) {
	runTransition(&h.BaseHandler, c, h.notes.MarkDelivered)
}

// SignRequest carries the signer name for a delivered note.
type SignRequest struct {
	SignedBy string `json:"signed_by" binding:"required,max=200"`
}

// MarkSigned records the recipient signature.
// POST /api/v1/delivery-notes/:id/sign
func (h *DeliveryNoteHandler) MarkSigned(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid delivery note ID")
		return
	}

	var req SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	note, err := h.notes.MarkSigned(c.Request.Context(), organizationID, id, req.SignedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// Delete removes a draft delivery note.
// DELETE /api/v1/delivery-notes/:id
func (h *DeliveryNoteHandler) Delete(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid delivery note ID")
		return
	}

	if err := h.notes.DeleteDeliveryNote(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
