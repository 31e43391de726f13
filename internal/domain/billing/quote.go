package billing

import (
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusApproved  QuoteStatus = "approved"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusCancelled QuoteStatus = "cancelled"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusPending, QuoteStatusApproved,
		QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// accepted, rejected and cancelled are terminal; an accepted quote can only
// be duplicated into an invoice, never re-entered.
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusPending || target == QuoteStatusCancelled
	case QuoteStatusPending:
		return target == QuoteStatusApproved || target == QuoteStatusRejected || target == QuoteStatusCancelled
	case QuoteStatusApproved:
		return target == QuoteStatusAccepted || target == QuoteStatusRejected || target == QuoteStatusCancelled
	case QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusCancelled:
		return false
	}
	return false
}

// QuotePermissions enumerates the actions available for a status
type QuotePermissions struct {
	CanEdit    bool `json:"can_edit"`
	CanDelete  bool `json:"can_delete"`
	CanSend    bool `json:"can_send"`
	CanApprove bool `json:"can_approve"`
	CanAccept  bool `json:"can_accept"`
	CanReject  bool `json:"can_reject"`
	CanCancel  bool `json:"can_cancel"`
	CanConvert bool `json:"can_convert"`
}

// PermissionsForQuote computes the action guards for a quote status
func PermissionsForQuote(status QuoteStatus) QuotePermissions {
	return QuotePermissions{
		CanEdit:    status == QuoteStatusDraft,
		CanDelete:  status != QuoteStatusAccepted,
		CanSend:    status.CanTransitionTo(QuoteStatusPending),
		CanApprove: status.CanTransitionTo(QuoteStatusApproved),
		CanAccept:  status.CanTransitionTo(QuoteStatusAccepted),
		CanReject:  status.CanTransitionTo(QuoteStatusRejected),
		CanCancel:  status.CanTransitionTo(QuoteStatusCancelled),
		CanConvert: status == QuoteStatusAccepted,
	}
}

// Quote is the aggregate root for a sales quote (devis)
type Quote struct {
	shared.OrganizationAggregateRoot
	Number     string `gorm:"type:varchar(50);not null"`
	ClientID   uuid.UUID
	ClientName string `gorm:"type:varchar(200)"`
	Date       time.Time
	ValidUntil *time.Time
	Status     QuoteStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Items      []LineItem  `gorm:"foreignKey:DocumentID"`
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
	Currency   valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	Notes      string               `gorm:"type:text"`
	SentAt     *time.Time
	AcceptedAt *time.Time
	RejectedAt *time.Time
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a new draft quote
func NewQuote(organizationID uuid.UUID, number string, clientID uuid.UUID, clientName string, date time.Time) (*Quote, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Quote number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	q := &Quote{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		Number:                    number,
		ClientID:                  clientID,
		ClientName:                clientName,
		Date:                      date,
		Status:                    QuoteStatusDraft,
		Items:                     make([]LineItem, 0),
		Subtotal:                  decimal.Zero,
		TaxAmount:                 decimal.Zero,
		Total:                     decimal.Zero,
		Currency:                  valueobject.DefaultCurrency,
	}
	return q, nil
}

// AddItem adds a line to the quote. Only allowed in draft.
func (q *Quote) AddItem(description string, quantity, unitPrice, taxRate, discount decimal.Decimal) (*LineItem, error) {
	if !PermissionsForQuote(q.Status).CanEdit {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot modify a non-draft quote")
	}

	item, err := NewLineItem(q.ID, description, quantity, unitPrice, taxRate, discount)
	if err != nil {
		return nil, err
	}

	q.Items = append(q.Items, *item)
	q.recalculateTotals()
	q.UpdatedAt = time.Now()
	return item, nil
}

// RemoveItem removes a line from the quote. Only allowed in draft.
func (q *Quote) RemoveItem(itemID uuid.UUID) error {
	if !PermissionsForQuote(q.Status).CanEdit {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a non-draft quote")
	}

	for idx, item := range q.Items {
		if item.ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			q.recalculateTotals()
			q.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Quote line not found")
}

// Send submits the quote to the client, moving it to pending
func (q *Quote) Send() error {
	if !q.Status.CanTransitionTo(QuoteStatusPending) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send quote in %s status", q.Status))
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send a quote without lines")
	}

	now := time.Now()
	q.Status = QuoteStatusPending
	q.SentAt = &now
	q.UpdatedAt = now
	return nil
}

// Approve marks the pending quote as internally approved
func (q *Quote) Approve() error {
	if !q.Status.CanTransitionTo(QuoteStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve quote in %s status", q.Status))
	}

	q.Status = QuoteStatusApproved
	q.UpdatedAt = time.Now()
	return nil
}

// Accept records client acceptance of the quote
func (q *Quote) Accept() error {
	if !q.Status.CanTransitionTo(QuoteStatusAccepted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept quote in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuoteStatusAccepted
	q.AcceptedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteAcceptedEvent(q))
	return nil
}

// Reject records client rejection of the quote
func (q *Quote) Reject() error {
	if !q.Status.CanTransitionTo(QuoteStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject quote in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuoteStatusRejected
	q.RejectedAt = &now
	q.UpdatedAt = now
	return nil
}

// Cancel cancels the quote
func (q *Quote) Cancel() error {
	if !q.Status.CanTransitionTo(QuoteStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel quote in %s status", q.Status))
	}

	q.Status = QuoteStatusCancelled
	q.UpdatedAt = time.Now()
	return nil
}

// ConvertToInvoice duplicates an accepted quote into a fresh draft invoice.
// This is the only action available on an accepted quote; the quote itself
// is left untouched.
func (q *Quote) ConvertToInvoice(invoiceNumber string, date time.Time) (*Invoice, error) {
	if !PermissionsForQuote(q.Status).CanConvert {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot convert quote in %s status to invoice", q.Status))
	}

	inv, err := NewInvoice(q.OrganizationID, invoiceNumber, q.ClientID, q.ClientName, date)
	if err != nil {
		return nil, err
	}
	inv.Currency = q.Currency
	inv.Notes = q.Notes

	for idx := range q.Items {
		src := &q.Items[idx]
		if _, err := inv.AddItem(src.Description, src.Quantity, src.UnitPrice, src.TaxRate, src.Discount); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// Permissions returns the action guards for the current status
func (q *Quote) Permissions() QuotePermissions {
	return PermissionsForQuote(q.Status)
}

func (q *Quote) recalculateTotals() {
	q.Subtotal, q.TaxAmount, q.Total = sumLines(q.Items)
}
