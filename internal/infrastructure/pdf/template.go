package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/facturio/backend/internal/application/billing"
	"github.com/shopspring/decimal"
)

// TemplateEngine renders a document snapshot into printable HTML.
type TemplateEngine struct {
	tmpl *template.Template
}

// NewTemplateEngine parses the built-in document template.
func NewTemplateEngine() (*TemplateEngine, error) {
	funcMap := template.FuncMap{
		"formatMoney":   formatMoney,
		"formatDecimal": formatDecimal,
		"formatPercent": formatPercent,
		"formatDate":    formatDate,
	}

	tmpl, err := template.New("document").Funcs(funcMap).Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse document template: %w", err)
	}
	return &TemplateEngine{tmpl: tmpl}, nil
}

// RenderHTML lays out the document snapshot as a printable page.
func (e *TemplateEngine) RenderHTML(doc *billing.PrintableDocument) (string, error) {
	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render document %s: %w", doc.Number, err)
	}
	return buf.String(), nil
}

func formatMoney(amount decimal.Decimal, currency string) string {
	symbol := currency
	switch currency {
	case "EUR":
		symbol = "€"
	case "USD":
		symbol = "$"
	case "GBP":
		symbol = "£"
	}
	return amount.StringFixed(2) + " " + symbol
}

func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + " %"
}

// formatDate accepts both time.Time and *time.Time so optional dates
// render without a template-side nil dance.
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("02/01/2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("02/01/2006")
	}
	return ""
}

const documentTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1a1a1a; font-size: 12px; margin: 0; }
  .header { display: flex; justify-content: space-between; margin-bottom: 32px; }
  .title { font-size: 22px; font-weight: 700; }
  .number { color: #555; margin-top: 4px; }
  .meta { text-align: right; color: #555; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th { text-align: left; border-bottom: 2px solid #1a1a1a; padding: 6px 8px; font-size: 11px; text-transform: uppercase; }
  td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
  .num { text-align: right; }
  .totals { margin-top: 16px; margin-left: auto; width: 260px; }
  .totals td { border: none; padding: 4px 8px; }
  .totals .grand td { border-top: 2px solid #1a1a1a; font-weight: 700; }
  .notes { margin-top: 32px; color: #555; white-space: pre-wrap; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <div class="title">{{.Title}}</div>
      <div class="number">{{.Number}}</div>
    </div>
    <div class="meta">
      <div>{{.PartyName}}</div>
      <div>Date : {{formatDate .Date}}</div>
      {{if .DueDate}}<div>Échéance : {{formatDate .DueDate}}</div>{{end}}
    </div>
  </div>
  <table>
    <thead>
      <tr>
        <th>Description</th>
        <th class="num">Qté</th>
        <th class="num">P.U. HT</th>
        <th class="num">TVA</th>
        <th class="num">Remise</th>
        <th class="num">Total HT</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Description}}</td>
        <td class="num">{{formatDecimal .Quantity}}</td>
        <td class="num">{{formatMoney .UnitPrice $.Currency}}</td>
        <td class="num">{{formatPercent .TaxRate}}</td>
        <td class="num">{{formatPercent .Discount}}</td>
        <td class="num">{{formatMoney .Total $.Currency}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <table class="totals">
    <tr><td>Total HT</td><td class="num">{{formatMoney .Subtotal .Currency}}</td></tr>
    <tr><td>TVA</td><td class="num">{{formatMoney .TaxAmount .Currency}}</td></tr>
    <tr class="grand"><td>Total TTC</td><td class="num">{{formatMoney .Total .Currency}}</td></tr>
  </table>
  {{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>`
