package pdf

import (
	"testing"
	"time"

	appbilling "github.com/facturio/backend/internal/application/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrintable() *appbilling.PrintableDocument {
	due := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	return &appbilling.PrintableDocument{
		Title:     "Facture",
		Number:    "FAC-2026-0042",
		Date:      time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		DueDate:   &due,
		PartyName: "Acme SARL",
		Currency:  "EUR",
		Lines: []appbilling.PrintableLine{
			{
				Description: "Prestation de conseil",
				Quantity:    decimal.NewFromInt(3),
				UnitPrice:   decimal.NewFromInt(500),
				TaxRate:     decimal.NewFromInt(20),
				Discount:    decimal.Zero,
				Total:       decimal.NewFromInt(1500),
			},
		},
		Subtotal:  decimal.NewFromInt(1500),
		TaxAmount: decimal.NewFromInt(300),
		Total:     decimal.NewFromInt(1800),
		Notes:     "Paiement à 30 jours",
	}
}

func TestTemplateEngineRendersDocument(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	html, err := engine.RenderHTML(testPrintable())
	require.NoError(t, err)

	assert.Contains(t, html, "Facture")
	assert.Contains(t, html, "FAC-2026-0042")
	assert.Contains(t, html, "Acme SARL")
	assert.Contains(t, html, "Prestation de conseil")
	assert.Contains(t, html, "31/08/2026")
	assert.Contains(t, html, "Échéance : 30/09/2026")
	assert.Contains(t, html, "1500.00 €")
	assert.Contains(t, html, "1800.00 €")
	assert.Contains(t, html, "Paiement à 30 jours")
}

func TestTemplateEngineOmitsOptionalSections(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	doc := testPrintable()
	doc.DueDate = nil
	doc.Notes = ""

	html, err := engine.RenderHTML(doc)
	require.NoError(t, err)

	assert.NotContains(t, html, "Échéance")
	assert.NotContains(t, html, `class="notes"`)
}

func TestTemplateEngineEscapesMarkup(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	doc := testPrintable()
	doc.Lines[0].Description = `<script>alert("x")</script>`

	html, err := engine.RenderHTML(doc)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "12.50 €", formatMoney(decimal.NewFromFloat(12.5), "EUR"))
	assert.Equal(t, "12.50 $", formatMoney(decimal.NewFromFloat(12.5), "USD"))
	assert.Equal(t, "12.50 CHF", formatMoney(decimal.NewFromFloat(12.5), "CHF"))
	assert.Equal(t, "20.0 %", formatPercent(decimal.NewFromInt(20)))
	assert.Equal(t, "", formatDate((*time.Time)(nil)))
	assert.Equal(t, "", formatDate(nil))
}
