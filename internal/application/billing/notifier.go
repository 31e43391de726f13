package billing

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentRef identifies a document to notify about, with the display
// snapshot a renderer needs so it never has to reload the aggregate.
type DocumentRef struct {
	OrganizationID uuid.UUID
	DocumentID     uuid.UUID
	DocumentType   numbering.DocumentType
	Number         string
	RecipientID    uuid.UUID
	Printable      *PrintableDocument
}

// PrintableLine is one rendered line of a document.
type PrintableLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// PrintableDocument carries everything the PDF template lays out.
type PrintableDocument struct {
	Title     string
	Number    string
	Date      time.Time
	DueDate   *time.Time
	PartyName string
	Currency  string
	Lines     []PrintableLine
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
	Notes     string
}

// DocumentNotifier renders a document and delivers it to its recipient.
// Implementations own the rendering (PDF), storage and transport (email);
// a failure must never roll back the originating status change.
type DocumentNotifier interface {
	SendDocument(ctx context.Context, ref DocumentRef) error
}

func printableLines(items []billing.LineItem) []PrintableLine {
	lines := make([]PrintableLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, PrintableLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
			Discount:    item.Discount,
			Total:       item.Total,
		})
	}
	return lines
}

// PrintableFromInvoice snapshots an invoice for rendering.
func PrintableFromInvoice(inv *billing.Invoice) *PrintableDocument {
	return &PrintableDocument{
		Title:     "Facture",
		Number:    inv.Number,
		Date:      inv.Date,
		DueDate:   inv.DueDate,
		PartyName: inv.ClientName,
		Currency:  string(inv.Currency),
		Lines:     printableLines(inv.Items),
		Subtotal:  inv.Subtotal,
		TaxAmount: inv.TaxAmount,
		Total:     inv.Total,
		Notes:     inv.Notes,
	}
}

// PrintableFromQuote snapshots a quote for rendering.
func PrintableFromQuote(q *billing.Quote) *PrintableDocument {
	return &PrintableDocument{
		Title:     "Devis",
		Number:    q.Number,
		Date:      q.Date,
		DueDate:   q.ValidUntil,
		PartyName: q.ClientName,
		Currency:  string(q.Currency),
		Lines:     printableLines(q.Items),
		Subtotal:  q.Subtotal,
		TaxAmount: q.TaxAmount,
		Total:     q.Total,
		Notes:     q.Notes,
	}
}

// PrintableFromDeliveryNote snapshots a delivery note for rendering.
// Delivery notes carry no currency of their own; amounts are informative.
func PrintableFromDeliveryNote(note *billing.DeliveryNote) *PrintableDocument {
	return &PrintableDocument{
		Title:     "Bon de livraison",
		Number:    note.Number,
		Date:      note.Date,
		PartyName: note.ClientName,
		Currency:  "EUR",
		Lines:     printableLines(note.Items),
		Subtotal:  note.Subtotal,
		TaxAmount: note.TaxAmount,
		Total:     note.Total,
		Notes:     note.Notes,
	}
}

// PrintableFromCreditNote snapshots a credit note for rendering.
func PrintableFromCreditNote(cn *billing.CreditNote) *PrintableDocument {
	return &PrintableDocument{
		Title:     "Avoir",
		Number:    cn.Number,
		Date:      cn.Date,
		PartyName: cn.ClientName,
		Currency:  string(cn.Currency),
		Lines:     printableLines(cn.Items),
		Subtotal:  cn.Subtotal,
		TaxAmount: cn.TaxAmount,
		Total:     cn.Total,
		Notes:     cn.Reason,
	}
}

// PrintableFromPurchaseOrder snapshots a purchase order for rendering.
func PrintableFromPurchaseOrder(po *billing.PurchaseOrder) *PrintableDocument {
	return &PrintableDocument{
		Title:     "Bon de commande",
		Number:    po.Number,
		Date:      po.Date,
		PartyName: po.SupplierName,
		Currency:  string(po.Currency),
		Lines:     printableLines(po.Items),
		Subtotal:  po.Subtotal,
		TaxAmount: po.TaxAmount,
		Total:     po.Total,
		Notes:     po.Notes,
	}
}
