package inventory

import (
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is a tracked product with an on-hand quantity. Outgoing
// documents validate against it before any write leaves the process.
type StockItem struct {
	shared.OrganizationAggregateRoot
	SKU         string `gorm:"type:varchar(50);not null"`
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	MinQuantity decimal.Decimal
	Unit        string `gorm:"type:varchar(20);default:'unit'"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item
func NewStockItem(organizationID uuid.UUID, sku, name string, quantity, unitPrice decimal.Decimal) (*StockItem, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &StockItem{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		SKU:                       sku,
		Name:                      name,
		Quantity:                  quantity,
		UnitPrice:                 unitPrice,
		MinQuantity:               decimal.Zero,
	}, nil
}

// CanFulfill reports whether the requested quantity is available.
// Callers check this before building a document line so the failure
// surfaces inline, without a round-trip.
func (s *StockItem) CanFulfill(requested decimal.Decimal) bool {
	return requested.GreaterThan(decimal.Zero) && requested.LessThanOrEqual(s.Quantity)
}

// Reserve removes the requested quantity from stock
func (s *StockItem) Reserve(requested decimal.Decimal) error {
	if requested.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	if requested.GreaterThan(s.Quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Requested quantity exceeds available stock")
	}

	s.Quantity = s.Quantity.Sub(requested)
	s.UpdatedAt = time.Now()
	return nil
}

// Restock adds received quantity back into stock
func (s *StockItem) Restock(received decimal.Decimal) error {
	if received.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}

	s.Quantity = s.Quantity.Add(received)
	s.UpdatedAt = time.Now()
	return nil
}

// SetMinQuantity sets the low-stock alert threshold
func (s *StockItem) SetMinQuantity(min decimal.Decimal) error {
	if min.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}
	s.MinQuantity = min
	s.UpdatedAt = time.Now()
	return nil
}

// IsLowStock reports whether the on-hand quantity dropped to the threshold
func (s *StockItem) IsLowStock() bool {
	return s.MinQuantity.GreaterThan(decimal.Zero) && s.Quantity.LessThanOrEqual(s.MinQuantity)
}
