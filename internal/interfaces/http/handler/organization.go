package handler

import (
	"time"

	organizationapp "github.com/facturio/backend/internal/application/organization"
	"github.com/gin-gonic/gin"
)

// OrganizationHandler manages tenant organizations over HTTP. Unlike the
// document handlers, lookups here use the :id path parameter rather than
// the request's organization context so that an operator can administer
// any tenant.
type OrganizationHandler struct {
	BaseHandler
	organizations *organizationapp.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(organizations *organizationapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{organizations: organizations}
}

// Register provisions a new organization.
// POST /api/v1/organizations
func (h *OrganizationHandler) Register(c *gin.Context) {
	var req organizationapp.RegisterOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	org, err := h.organizations.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, org)
}

// Get returns one organization with its subscription badge.
// GET /api/v1/organizations/:id
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	org, err := h.organizations.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// List returns organizations with pagination.
// GET /api/v1/organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	orgs, err := h.organizations.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orgs)
}

// ActivateRequest opens a subscription window for an organization.
type ActivateRequest struct {
	SubscriptionStart time.Time  `json:"subscription_start" binding:"required"`
	SubscriptionEnd   *time.Time `json:"subscription_end"`
}

// Activate turns an organization active; a nil end date means an
// open-ended subscription.
// POST /api/v1/organizations/:id/activate
func (h *OrganizationHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	org, err := h.organizations.Activate(c.Request.Context(), id, req.SubscriptionStart, req.SubscriptionEnd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// Suspend blocks an organization without deleting its data.
// POST /api/v1/organizations/:id/suspend
func (h *OrganizationHandler) Suspend(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	org, err := h.organizations.Suspend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// ExtendSubscriptionRequest pushes the subscription end date forward.
type ExtendSubscriptionRequest struct {
	NewEnd time.Time `json:"new_end" binding:"required"`
}

// ExtendSubscription moves the subscription end date of an organization.
// POST /api/v1/organizations/:id/extend-subscription
func (h *OrganizationHandler) ExtendSubscription(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req ExtendSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	org, err := h.organizations.ExtendSubscription(c.Request.Context(), id, req.NewEnd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}
