package billing

import (
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryNoteStatus represents the lifecycle state of a delivery note
type DeliveryNoteStatus string

const (
	DeliveryNoteStatusPending   DeliveryNoteStatus = "pending"
	DeliveryNoteStatusSent      DeliveryNoteStatus = "sent"
	DeliveryNoteStatusDelivered DeliveryNoteStatus = "delivered"
	DeliveryNoteStatusSigned    DeliveryNoteStatus = "signed"
)

// IsValid checks if the status is a valid DeliveryNoteStatus
func (s DeliveryNoteStatus) IsValid() bool {
	switch s {
	case DeliveryNoteStatusPending, DeliveryNoteStatusSent,
		DeliveryNoteStatusDelivered, DeliveryNoteStatusSigned:
		return true
	}
	return false
}

// String returns the string representation of DeliveryNoteStatus
func (s DeliveryNoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The flow is strictly forward: pending -> sent -> delivered -> signed.
func (s DeliveryNoteStatus) CanTransitionTo(target DeliveryNoteStatus) bool {
	switch s {
	case DeliveryNoteStatusPending:
		return target == DeliveryNoteStatusSent
	case DeliveryNoteStatusSent:
		return target == DeliveryNoteStatusDelivered
	case DeliveryNoteStatusDelivered:
		return target == DeliveryNoteStatusSigned
	case DeliveryNoteStatusSigned:
		return false
	}
	return false
}

// DeliveryNotePermissions enumerates the actions available for a status.
// A delivered good cannot be deleted.
type DeliveryNotePermissions struct {
	CanEdit          bool `json:"can_edit"`
	CanDelete        bool `json:"can_delete"`
	CanSend          bool `json:"can_send"`
	CanMarkDelivered bool `json:"can_mark_delivered"`
	CanMarkSigned    bool `json:"can_mark_signed"`
}

// PermissionsForDeliveryNote computes the action guards for a delivery note status
func PermissionsForDeliveryNote(status DeliveryNoteStatus) DeliveryNotePermissions {
	return DeliveryNotePermissions{
		CanEdit:          status == DeliveryNoteStatusPending,
		CanDelete:        status == DeliveryNoteStatusPending || status == DeliveryNoteStatusSent,
		CanSend:          status.CanTransitionTo(DeliveryNoteStatusSent),
		CanMarkDelivered: status.CanTransitionTo(DeliveryNoteStatusDelivered),
		CanMarkSigned:    status.CanTransitionTo(DeliveryNoteStatusSigned),
	}
}

// DeliveryNote is the aggregate root for a bon de livraison
type DeliveryNote struct {
	shared.OrganizationAggregateRoot
	Number      string `gorm:"type:varchar(50);not null"`
	ClientID    uuid.UUID
	ClientName  string `gorm:"type:varchar(200)"`
	Date        time.Time
	Status      DeliveryNoteStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Items       []LineItem         `gorm:"foreignKey:DocumentID"`
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	Notes       string `gorm:"type:text"`
	SentAt      *time.Time
	DeliveredAt *time.Time
	SignedAt    *time.Time
	SignedBy    string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (DeliveryNote) TableName() string {
	return "delivery_notes"
}

// NewDeliveryNote creates a new pending delivery note
func NewDeliveryNote(organizationID uuid.UUID, number string, clientID uuid.UUID, clientName string, date time.Time) (*DeliveryNote, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Delivery note number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	return &DeliveryNote{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		Number:                    number,
		ClientID:                  clientID,
		ClientName:                clientName,
		Date:                      date,
		Status:                    DeliveryNoteStatusPending,
		Items:                     make([]LineItem, 0),
		Subtotal:                  decimal.Zero,
		TaxAmount:                 decimal.Zero,
		Total:                     decimal.Zero,
	}, nil
}

// AddItem adds a line to the delivery note. Only allowed while pending.
func (d *DeliveryNote) AddItem(description string, quantity, unitPrice, taxRate, discount decimal.Decimal) (*LineItem, error) {
	if !PermissionsForDeliveryNote(d.Status).CanEdit {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot modify a delivery note after it was sent")
	}

	item, err := NewLineItem(d.ID, description, quantity, unitPrice, taxRate, discount)
	if err != nil {
		return nil, err
	}

	d.Items = append(d.Items, *item)
	d.recalculateTotals()
	d.UpdatedAt = time.Now()
	return item, nil
}

// Send marks the delivery note as sent
func (d *DeliveryNote) Send() error {
	if !d.Status.CanTransitionTo(DeliveryNoteStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send delivery note in %s status", d.Status))
	}
	if len(d.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send a delivery note without lines")
	}

	now := time.Now()
	d.Status = DeliveryNoteStatusSent
	d.SentAt = &now
	d.UpdatedAt = now
	return nil
}

// MarkDelivered records physical delivery of the goods
func (d *DeliveryNote) MarkDelivered() error {
	if !d.Status.CanTransitionTo(DeliveryNoteStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark delivery note in %s status as delivered", d.Status))
	}

	now := time.Now()
	d.Status = DeliveryNoteStatusDelivered
	d.DeliveredAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDeliveryNoteDeliveredEvent(d))
	return nil
}

// MarkSigned records the client signature on the delivered note
func (d *DeliveryNote) MarkSigned(signedBy string) error {
	if !d.Status.CanTransitionTo(DeliveryNoteStatusSigned) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot sign delivery note in %s status", d.Status))
	}
	if signedBy == "" {
		return shared.NewDomainError("INVALID_SIGNATURE", "Signer name is required")
	}

	now := time.Now()
	d.Status = DeliveryNoteStatusSigned
	d.SignedAt = &now
	d.SignedBy = signedBy
	d.UpdatedAt = now
	return nil
}

// Permissions returns the action guards for the current status
func (d *DeliveryNote) Permissions() DeliveryNotePermissions {
	return PermissionsForDeliveryNote(d.Status)
}

func (d *DeliveryNote) recalculateTotals() {
	d.Subtotal, d.TaxAmount, d.Total = sumLines(d.Items)
}
