package billing

import (
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem is a single line of any billing document. All five document kinds
// share the same line shape: description, quantity, unit price, per-line tax
// rate and discount percentage, and the computed total.
//
// Total is the discounted line amount excluding tax; tax is accumulated at
// document level from TaxAmount.
type LineItem struct {
	ID          uuid.UUID
	DocumentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // percentage, 0-100
	Discount    decimal.Decimal // percentage, 0-100
	Total       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "document_line_items"
}

// NewLineItem creates a validated line item for a document
func NewLineItem(documentID uuid.UUID, description string, quantity, unitPrice, taxRate, discount decimal.Decimal) (*LineItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}

	now := time.Now()
	item := &LineItem{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TaxRate:     taxRate,
		Discount:    discount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	item.recalculate()
	return item, nil
}

// Update replaces the mutable fields and recomputes the total
func (i *LineItem) Update(description string, quantity, unitPrice, taxRate, discount decimal.Decimal) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}

	i.Description = description
	i.Quantity = quantity
	i.UnitPrice = unitPrice
	i.TaxRate = taxRate
	i.Discount = discount
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

// TaxAmount returns the tax carried by this line
func (i *LineItem) TaxAmount() decimal.Decimal {
	return i.Total.Mul(i.TaxRate).Div(hundred).Round(2)
}

func (i *LineItem) recalculate() {
	gross := i.Quantity.Mul(i.UnitPrice)
	discounted := gross.Mul(hundred.Sub(i.Discount)).Div(hundred)
	i.Total = discounted.Round(2)
}

// sumLines folds line totals into document-level amounts:
// subtotal (ex tax), tax amount and grand total.
func sumLines(items []LineItem) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	tax = decimal.Zero
	for idx := range items {
		subtotal = subtotal.Add(items[idx].Total)
		tax = tax.Add(items[idx].TaxAmount())
	}
	total = subtotal.Add(tax)
	return subtotal, tax, total
}
