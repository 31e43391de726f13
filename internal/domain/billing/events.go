package billing

import (
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for the billing documents
const (
	EventTypeInvoiceCreated        = "billing.invoice.created"
	EventTypeInvoiceSent           = "billing.invoice.sent"
	EventTypeInvoicePaid           = "billing.invoice.paid"
	EventTypeQuoteAccepted         = "billing.quote.accepted"
	EventTypeDeliveryNoteDelivered = "billing.delivery_note.delivered"
	EventTypeCreditNoteApplied     = "billing.credit_note.applied"
	EventTypePurchaseOrderReceived = "billing.purchase_order.received"
)

// InvoiceCreatedEvent is raised when a new invoice draft comes into existence
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number   string          `json:"number"`
	ClientID uuid.UUID       `json:"client_id"`
	Total    decimal.Decimal `json:"total"`
}

// NewInvoiceCreatedEvent creates an InvoiceCreatedEvent from the invoice
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, inv.ID, "Invoice", inv.OrganizationID),
		Number:          inv.Number,
		ClientID:        inv.ClientID,
		Total:           inv.Total,
	}
}

// InvoiceSentEvent is raised when an invoice is sent to the client
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	Number   string    `json:"number"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewInvoiceSentEvent creates an InvoiceSentEvent from the invoice
func NewInvoiceSentEvent(inv *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, inv.ID, "Invoice", inv.OrganizationID),
		Number:          inv.Number,
		ClientID:        inv.ClientID,
	}
}

// InvoicePaidEvent is raised when the invoice balance reaches zero
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	Number     string          `json:"number"`
	ClientID   uuid.UUID       `json:"client_id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// NewInvoicePaidEvent creates an InvoicePaidEvent from the invoice
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, inv.ID, "Invoice", inv.OrganizationID),
		Number:          inv.Number,
		ClientID:        inv.ClientID,
		AmountPaid:      inv.AmountPaid,
	}
}

// QuoteAcceptedEvent is raised when the client accepts a quote
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	Number   string          `json:"number"`
	ClientID uuid.UUID       `json:"client_id"`
	Total    decimal.Decimal `json:"total"`
}

// NewQuoteAcceptedEvent creates a QuoteAcceptedEvent from the quote
func NewQuoteAcceptedEvent(q *Quote) *QuoteAcceptedEvent {
	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteAccepted, q.ID, "Quote", q.OrganizationID),
		Number:          q.Number,
		ClientID:        q.ClientID,
		Total:           q.Total,
	}
}

// DeliveryNoteDeliveredEvent is raised when the goods reach the client
type DeliveryNoteDeliveredEvent struct {
	shared.BaseDomainEvent
	Number   string    `json:"number"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewDeliveryNoteDeliveredEvent creates a DeliveryNoteDeliveredEvent
func NewDeliveryNoteDeliveredEvent(d *DeliveryNote) *DeliveryNoteDeliveredEvent {
	return &DeliveryNoteDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryNoteDelivered, d.ID, "DeliveryNote", d.OrganizationID),
		Number:          d.Number,
		ClientID:        d.ClientID,
	}
}

// CreditNoteAppliedEvent is raised when a credit note is applied to an invoice
type CreditNoteAppliedEvent struct {
	shared.BaseDomainEvent
	Number    string          `json:"number"`
	InvoiceID *uuid.UUID      `json:"invoice_id"`
	Total     decimal.Decimal `json:"total"`
}

// NewCreditNoteAppliedEvent creates a CreditNoteAppliedEvent
func NewCreditNoteAppliedEvent(c *CreditNote) *CreditNoteAppliedEvent {
	return &CreditNoteAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditNoteApplied, c.ID, "CreditNote", c.OrganizationID),
		Number:          c.Number,
		InvoiceID:       c.AppliedInvoiceID,
		Total:           c.Total,
	}
}

// PurchaseOrderReceivedEvent is raised when ordered goods are received
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	Number     string          `json:"number"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewPurchaseOrderReceivedEvent creates a PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(po *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, po.ID, "PurchaseOrder", po.OrganizationID),
		Number:          po.Number,
		SupplierID:      po.SupplierID,
		Total:           po.Total,
	}
}
