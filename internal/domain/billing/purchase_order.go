package billing

import (
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the lifecycle state of a purchase order.
// The values are the French labels used throughout the product: brouillon
// (draft), en_attente (awaiting validation), validee (validated), livree
// (received), annulee (cancelled).
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusBrouillon PurchaseOrderStatus = "brouillon"
	PurchaseOrderStatusEnAttente PurchaseOrderStatus = "en_attente"
	PurchaseOrderStatusValidee   PurchaseOrderStatus = "validee"
	PurchaseOrderStatusLivree    PurchaseOrderStatus = "livree"
	PurchaseOrderStatusAnnulee   PurchaseOrderStatus = "annulee"
)

// AllPurchaseOrderStatuses lists every status, in lifecycle order
var AllPurchaseOrderStatuses = []PurchaseOrderStatus{
	PurchaseOrderStatusBrouillon,
	PurchaseOrderStatusEnAttente,
	PurchaseOrderStatusValidee,
	PurchaseOrderStatusLivree,
	PurchaseOrderStatusAnnulee,
}

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusBrouillon, PurchaseOrderStatusEnAttente,
		PurchaseOrderStatusValidee, PurchaseOrderStatusLivree, PurchaseOrderStatusAnnulee:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further status change is possible
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusLivree || s == PurchaseOrderStatusAnnulee
}

// CanTransitionTo checks if the status can transition to the target status.
// Any non-terminal order can be received or cancelled directly.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch target {
	case PurchaseOrderStatusEnAttente:
		return s == PurchaseOrderStatusBrouillon
	case PurchaseOrderStatusValidee:
		return s == PurchaseOrderStatusEnAttente
	case PurchaseOrderStatusLivree, PurchaseOrderStatusAnnulee:
		return true
	}
	return false
}

// PurchaseOrderPermissions enumerates the actions available for a status:
// editing is restricted to brouillon/en_attente, deletion is blocked once
// the goods were received, and receiving/emailing are blocked on terminal
// states.
type PurchaseOrderPermissions struct {
	CanEdit           bool `json:"can_edit"`
	CanDelete         bool `json:"can_delete"`
	CanMarkAsReceived bool `json:"can_mark_as_received"`
	CanSendEmail      bool `json:"can_send_email"`
}

// PermissionsForPurchaseOrder computes the action guards for a purchase
// order status. Pure function of the status; callers must re-derive on
// every read instead of caching the flags.
func PermissionsForPurchaseOrder(status PurchaseOrderStatus) PurchaseOrderPermissions {
	return PurchaseOrderPermissions{
		CanEdit:           status == PurchaseOrderStatusBrouillon || status == PurchaseOrderStatusEnAttente,
		CanDelete:         status != PurchaseOrderStatusLivree,
		CanMarkAsReceived: !status.IsTerminal(),
		CanSendEmail:      !status.IsTerminal(),
	}
}

// PurchaseOrder is the aggregate root for a supplier purchase order
type PurchaseOrder struct {
	shared.OrganizationAggregateRoot
	Number       string `gorm:"type:varchar(50);not null"`
	SupplierID   uuid.UUID
	SupplierName string `gorm:"type:varchar(200)"`
	Date         time.Time
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'brouillon'"`
	Items        []LineItem          `gorm:"foreignKey:DocumentID"`
	Subtotal     decimal.Decimal
	TaxAmount    decimal.Decimal
	Total        decimal.Decimal
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	Notes        string               `gorm:"type:text"`
	SubmittedAt  *time.Time
	ValidatedAt  *time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in brouillon status
func NewPurchaseOrder(organizationID uuid.UUID, number string, supplierID uuid.UUID, supplierName string, date time.Time) (*PurchaseOrder, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Purchase order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	return &PurchaseOrder{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		Number:                    number,
		SupplierID:                supplierID,
		SupplierName:              supplierName,
		Date:                      date,
		Status:                    PurchaseOrderStatusBrouillon,
		Items:                     make([]LineItem, 0),
		Subtotal:                  decimal.Zero,
		TaxAmount:                 decimal.Zero,
		Total:                     decimal.Zero,
		Currency:                  valueobject.DefaultCurrency,
	}, nil
}

// AddItem adds a line to the order. Allowed in brouillon and en_attente.
func (po *PurchaseOrder) AddItem(description string, quantity, unitPrice, taxRate, discount decimal.Decimal) (*LineItem, error) {
	if !PermissionsForPurchaseOrder(po.Status).CanEdit {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify purchase order in %s status", po.Status))
	}

	item, err := NewLineItem(po.ID, description, quantity, unitPrice, taxRate, discount)
	if err != nil {
		return nil, err
	}

	po.Items = append(po.Items, *item)
	po.recalculateTotals()
	po.UpdatedAt = time.Now()
	return item, nil
}

// RemoveItem removes a line from the order. Allowed in brouillon and en_attente.
func (po *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if !PermissionsForPurchaseOrder(po.Status).CanEdit {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify purchase order in %s status", po.Status))
	}

	for idx, item := range po.Items {
		if item.ID == itemID {
			po.Items = append(po.Items[:idx], po.Items[idx+1:]...)
			po.recalculateTotals()
			po.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase order line not found")
}

// Submit moves the draft order to en_attente
func (po *PurchaseOrder) Submit() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusEnAttente) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit purchase order in %s status", po.Status))
	}
	if len(po.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit a purchase order without lines")
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusEnAttente
	po.SubmittedAt = &now
	po.UpdatedAt = now
	return nil
}

// Validate approves the order for sending to the supplier
func (po *PurchaseOrder) Validate() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusValidee) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot validate purchase order in %s status", po.Status))
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusValidee
	po.ValidatedAt = &now
	po.UpdatedAt = now
	return nil
}

// MarkReceived records delivery of the ordered goods. Allowed from any
// non-terminal status.
func (po *PurchaseOrder) MarkReceived() error {
	if !PermissionsForPurchaseOrder(po.Status).CanMarkAsReceived {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark purchase order in %s status as received", po.Status))
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusLivree
	po.ReceivedAt = &now
	po.UpdatedAt = now

	po.AddDomainEvent(NewPurchaseOrderReceivedEvent(po))
	return nil
}

// Cancel cancels the order. Not allowed once received.
func (po *PurchaseOrder) Cancel() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusAnnulee) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel purchase order in %s status", po.Status))
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusAnnulee
	po.CancelledAt = &now
	po.UpdatedAt = now
	return nil
}

// Permissions returns the action guards for the current status
func (po *PurchaseOrder) Permissions() PurchaseOrderPermissions {
	return PermissionsForPurchaseOrder(po.Status)
}

func (po *PurchaseOrder) recalculateTotals() {
	po.Subtotal, po.TaxAmount, po.Total = sumLines(po.Items)
}
