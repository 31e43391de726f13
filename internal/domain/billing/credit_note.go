package billing

import (
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditNoteStatus represents the lifecycle state of a credit note (avoir)
type CreditNoteStatus string

const (
	CreditNoteStatusDraft     CreditNoteStatus = "draft"
	CreditNoteStatusSent      CreditNoteStatus = "sent"
	CreditNoteStatusApplied   CreditNoteStatus = "applied"
	CreditNoteStatusCancelled CreditNoteStatus = "cancelled"
)

// IsValid checks if the status is a valid CreditNoteStatus
func (s CreditNoteStatus) IsValid() bool {
	switch s {
	case CreditNoteStatusDraft, CreditNoteStatusSent,
		CreditNoteStatusApplied, CreditNoteStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of CreditNoteStatus
func (s CreditNoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// applied and cancelled are terminal.
func (s CreditNoteStatus) CanTransitionTo(target CreditNoteStatus) bool {
	switch s {
	case CreditNoteStatusDraft:
		return target == CreditNoteStatusSent || target == CreditNoteStatusCancelled
	case CreditNoteStatusSent:
		return target == CreditNoteStatusApplied || target == CreditNoteStatusCancelled
	case CreditNoteStatusApplied, CreditNoteStatusCancelled:
		return false
	}
	return false
}

// CreditNotePermissions enumerates the actions available for a status.
// An applied credit cannot be deleted.
type CreditNotePermissions struct {
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
	CanSend   bool `json:"can_send"`
	CanApply  bool `json:"can_apply"`
	CanCancel bool `json:"can_cancel"`
}

// PermissionsForCreditNote computes the action guards for a credit note status
func PermissionsForCreditNote(status CreditNoteStatus) CreditNotePermissions {
	return CreditNotePermissions{
		CanEdit:   status == CreditNoteStatusDraft,
		CanDelete: status != CreditNoteStatusApplied,
		CanSend:   status.CanTransitionTo(CreditNoteStatusSent),
		CanApply:  status.CanTransitionTo(CreditNoteStatusApplied),
		CanCancel: status.CanTransitionTo(CreditNoteStatusCancelled),
	}
}

// CreditNote is the aggregate root for an avoir issued against an invoice
type CreditNote struct {
	shared.OrganizationAggregateRoot
	Number           string `gorm:"type:varchar(50);not null"`
	ClientID         uuid.UUID
	ClientName       string `gorm:"type:varchar(200)"`
	Date             time.Time
	Status           CreditNoteStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Items            []LineItem       `gorm:"foreignKey:DocumentID"`
	Subtotal         decimal.Decimal
	TaxAmount        decimal.Decimal
	Total            decimal.Decimal
	Currency         valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	Reason           string               `gorm:"type:text"`
	AppliedInvoiceID *uuid.UUID           `gorm:"type:uuid;index"`
	SentAt           *time.Time
	AppliedAt        *time.Time
}

// TableName returns the table name for GORM
func (CreditNote) TableName() string {
	return "credit_notes"
}

// NewCreditNote creates a new draft credit note
func NewCreditNote(organizationID uuid.UUID, number string, clientID uuid.UUID, clientName string, date time.Time) (*CreditNote, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Credit note number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	return &CreditNote{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		Number:                    number,
		ClientID:                  clientID,
		ClientName:                clientName,
		Date:                      date,
		Status:                    CreditNoteStatusDraft,
		Items:                     make([]LineItem, 0),
		Subtotal:                  decimal.Zero,
		TaxAmount:                 decimal.Zero,
		Total:                     decimal.Zero,
		Currency:                  valueobject.DefaultCurrency,
	}, nil
}

// AddItem adds a line to the credit note. Only allowed in draft.
func (c *CreditNote) AddItem(description string, quantity, unitPrice, taxRate, discount decimal.Decimal) (*LineItem, error) {
	if !PermissionsForCreditNote(c.Status).CanEdit {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot modify a non-draft credit note")
	}

	item, err := NewLineItem(c.ID, description, quantity, unitPrice, taxRate, discount)
	if err != nil {
		return nil, err
	}

	c.Items = append(c.Items, *item)
	c.recalculateTotals()
	c.UpdatedAt = time.Now()
	return item, nil
}

// SetReason records why the credit is issued
func (c *CreditNote) SetReason(reason string) {
	c.Reason = reason
	c.UpdatedAt = time.Now()
}

// Send marks the credit note as sent to the client
func (c *CreditNote) Send() error {
	if !c.Status.CanTransitionTo(CreditNoteStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send credit note in %s status", c.Status))
	}
	if len(c.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send a credit note without lines")
	}

	now := time.Now()
	c.Status = CreditNoteStatusSent
	c.SentAt = &now
	c.UpdatedAt = now
	return nil
}

// ApplyToInvoice applies the credit against the original invoice
func (c *CreditNote) ApplyToInvoice(invoiceID uuid.UUID) error {
	if !c.Status.CanTransitionTo(CreditNoteStatusApplied) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply credit note in %s status", c.Status))
	}
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVOICE", "Target invoice ID cannot be empty")
	}

	now := time.Now()
	c.Status = CreditNoteStatusApplied
	c.AppliedInvoiceID = &invoiceID
	c.AppliedAt = &now
	c.UpdatedAt = now

	c.AddDomainEvent(NewCreditNoteAppliedEvent(c))
	return nil
}

// Cancel cancels the credit note
func (c *CreditNote) Cancel() error {
	if !c.Status.CanTransitionTo(CreditNoteStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel credit note in %s status", c.Status))
	}

	c.Status = CreditNoteStatusCancelled
	c.UpdatedAt = time.Now()
	return nil
}

// Permissions returns the action guards for the current status
func (c *CreditNote) Permissions() CreditNotePermissions {
	return PermissionsForCreditNote(c.Status)
}

func (c *CreditNote) recalculateTotals() {
	c.Subtotal, c.TaxAmount, c.Total = sumLines(c.Items)
}
