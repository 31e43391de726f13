package handler

import (
	currencyapp "github.com/facturio/backend/internal/application/currency"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CurrencyHandler manages exchange rates and conversions over HTTP.
type CurrencyHandler struct {
	BaseHandler
	currencies *currencyapp.CurrencyService
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(currencies *currencyapp.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencies: currencies}
}

// UpsertRate creates or replaces the rate for a currency pair.
// PUT /api/v1/exchange-rates
func (h *CurrencyHandler) UpsertRate(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req currencyapp.UpsertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	rate, err := h.currencies.UpsertRate(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}

// ListRates returns all exchange rates of the organization.
// GET /api/v1/exchange-rates
func (h *CurrencyHandler) ListRates(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	rates, err := h.currencies.ListRates(c.Request.Context(), organizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

// DeleteRate removes an exchange rate.
// DELETE /api/v1/exchange-rates/:id
func (h *CurrencyHandler) DeleteRate(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid rate ID")
		return
	}

	if err := h.currencies.DeleteRate(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConvertRequest asks for an amount in another currency.
type ConvertRequest struct {
	Amount decimal.Decimal      `json:"amount" binding:"required"`
	From   valueobject.Currency `json:"from" binding:"required"`
	To     valueobject.Currency `json:"to" binding:"required"`
}

// ConvertResponse carries the converted amount. The amount comes back
// unchanged when no rate is configured for the pair.
type ConvertResponse struct {
	Amount    decimal.Decimal      `json:"amount"`
	Currency  valueobject.Currency `json:"currency"`
	Converted decimal.Decimal      `json:"converted"`
}

// Convert converts an amount between two currencies.
// POST /api/v1/exchange-rates/convert
func (h *CurrencyHandler) Convert(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Organization context missing")
		return
	}

	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	converted, err := h.currencies.Convert(c.Request.Context(), organizationID, req.Amount, req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ConvertResponse{
		Amount:    req.Amount,
		Currency:  req.To,
		Converted: converted,
	})
}
