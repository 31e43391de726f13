package billing

import (
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusValidated     InvoiceStatus = "validated"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusValidated,
		InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// paid is terminal.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent
	case InvoiceStatusSent:
		return target == InvoiceStatusValidated || target == InvoiceStatusPartiallyPaid ||
			target == InvoiceStatusPaid || target == InvoiceStatusOverdue
	case InvoiceStatusValidated:
		return target == InvoiceStatusPartiallyPaid || target == InvoiceStatusPaid ||
			target == InvoiceStatusOverdue
	case InvoiceStatusPartiallyPaid:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPartiallyPaid || target == InvoiceStatusPaid
	case InvoiceStatusPaid:
		return false
	}
	return false
}

// InvoicePermissions enumerates the actions available for a status.
// Derived from status alone on every call, never stored.
type InvoicePermissions struct {
	CanEdit          bool `json:"can_edit"`
	CanDelete        bool `json:"can_delete"`
	CanSend          bool `json:"can_send"`
	CanValidate      bool `json:"can_validate"`
	CanRecordPayment bool `json:"can_record_payment"`
	CanMarkOverdue   bool `json:"can_mark_overdue"`
}

// PermissionsForInvoice computes the action guards for an invoice status
func PermissionsForInvoice(status InvoiceStatus) InvoicePermissions {
	return InvoicePermissions{
		CanEdit:          status == InvoiceStatusDraft,
		CanDelete:        status == InvoiceStatusDraft,
		CanSend:          status == InvoiceStatusDraft,
		CanValidate:      status == InvoiceStatusSent,
		CanRecordPayment: status.CanTransitionTo(InvoiceStatusPaid),
		CanMarkOverdue:   status.CanTransitionTo(InvoiceStatusOverdue),
	}
}

// Invoice is the aggregate root for a customer invoice
type Invoice struct {
	shared.OrganizationAggregateRoot
	Number     string `gorm:"type:varchar(50);not null"`
	ClientID   uuid.UUID
	ClientName string `gorm:"type:varchar(200)"`
	Date       time.Time
	DueDate    *time.Time
	Status     InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Items      []LineItem    `gorm:"foreignKey:DocumentID"`
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	Currency   valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	Notes      string               `gorm:"type:text"`
	SentAt     *time.Time
	PaidAt     *time.Time
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new draft invoice
func NewInvoice(organizationID uuid.UUID, number string, clientID uuid.UUID, clientName string, date time.Time) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	inv := &Invoice{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		Number:                    number,
		ClientID:                  clientID,
		ClientName:                clientName,
		Date:                      date,
		Status:                    InvoiceStatusDraft,
		Items:                     make([]LineItem, 0),
		Subtotal:                  decimal.Zero,
		TaxAmount:                 decimal.Zero,
		Total:                     decimal.Zero,
		AmountPaid:                decimal.Zero,
		Currency:                  valueobject.DefaultCurrency,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// AddItem adds a line to the invoice. Only allowed in draft.
func (inv *Invoice) AddItem(description string, quantity, unitPrice, taxRate, discount decimal.Decimal) (*LineItem, error) {
	if !PermissionsForInvoice(inv.Status).CanEdit {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot modify a non-draft invoice")
	}

	item, err := NewLineItem(inv.ID, description, quantity, unitPrice, taxRate, discount)
	if err != nil {
		return nil, err
	}

	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()
	return item, nil
}

// UpdateItem updates an existing line. Only allowed in draft.
func (inv *Invoice) UpdateItem(itemID uuid.UUID, description string, quantity, unitPrice, taxRate, discount decimal.Decimal) error {
	if !PermissionsForInvoice(inv.Status).CanEdit {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a non-draft invoice")
	}

	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			if err := inv.Items[idx].Update(description, quantity, unitPrice, taxRate, discount); err != nil {
				return err
			}
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice line not found")
}

// RemoveItem removes a line from the invoice. Only allowed in draft.
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if !PermissionsForInvoice(inv.Status).CanEdit {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a non-draft invoice")
	}

	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice line not found")
}

// SetDueDate sets the payment due date
func (inv *Invoice) SetDueDate(due time.Time) error {
	if due.Before(inv.Date) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot precede the invoice date")
	}
	inv.DueDate = &due
	inv.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets free-form notes
func (inv *Invoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
}

// Send marks the invoice as sent to the client
func (inv *Invoice) Send() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send invoice in %s status", inv.Status))
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send an invoice without lines")
	}

	now := time.Now()
	inv.Status = InvoiceStatusSent
	inv.SentAt = &now
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewInvoiceSentEvent(inv))
	return nil
}

// Validate confirms the sent invoice as final
func (inv *Invoice) Validate() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusValidated) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot validate invoice in %s status", inv.Status))
	}

	inv.Status = InvoiceStatusValidated
	inv.UpdatedAt = time.Now()
	return nil
}

// RecordPayment records a partial or full payment received for the invoice
func (inv *Invoice) RecordPayment(amount decimal.Decimal) error {
	if !PermissionsForInvoice(inv.Status).CanRecordPayment {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payment on invoice in %s status", inv.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	remaining := inv.Total.Sub(inv.AmountPaid)
	if amount.GreaterThan(remaining) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment exceeds the remaining balance")
	}

	now := time.Now()
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	if inv.AmountPaid.GreaterThanOrEqual(inv.Total) {
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
	}
	inv.UpdatedAt = now
	return nil
}

// MarkOverdue flags the invoice as overdue. Triggered manually or derived
// from the due date at render time; status is the only input to the guard.
func (inv *Invoice) MarkOverdue() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusOverdue) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark invoice in %s status overdue", inv.Status))
	}

	inv.Status = InvoiceStatusOverdue
	inv.UpdatedAt = time.Now()
	return nil
}

// IsPastDue reports whether the due date has elapsed for an unpaid invoice.
// This drives the render-time overdue derivation; it does not mutate status.
func (inv *Invoice) IsPastDue(now time.Time) bool {
	if inv.DueDate == nil {
		return false
	}
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusDraft {
		return false
	}
	return now.After(*inv.DueDate)
}

// RemainingBalance returns the unpaid part of the invoice total
func (inv *Invoice) RemainingBalance() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid)
}

// Permissions returns the action guards for the current status
func (inv *Invoice) Permissions() InvoicePermissions {
	return PermissionsForInvoice(inv.Status)
}

func (inv *Invoice) recalculateTotals() {
	inv.Subtotal, inv.TaxAmount, inv.Total = sumLines(inv.Items)
}
