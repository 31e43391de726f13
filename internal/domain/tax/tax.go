package tax

import (
	"time"

	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TaxType distinguishes how a custom tax is computed
type TaxType string

const (
	// TaxTypePercentage applies Value as a percentage of the taxable base
	TaxTypePercentage TaxType = "percentage"
	// TaxTypeFixed adds Value as a flat amount regardless of the base
	TaxTypeFixed TaxType = "fixed"
)

// IsValid checks if the tax type is valid
func (t TaxType) IsValid() bool {
	return t == TaxTypePercentage || t == TaxTypeFixed
}

// String returns the string representation of TaxType
func (t TaxType) String() string {
	return string(t)
}

// Tax is an organization-defined tax applied on top of document totals,
// for levies that do not fit the per-line VAT model (stamp duty, eco
// contributions, sector fees). Each tax lists the document kinds it
// applies to; a document kind not in the list is never charged.
type Tax struct {
	shared.OrganizationAggregateRoot
	Name                string  `gorm:"type:varchar(100);not null"`
	Type                TaxType `gorm:"type:varchar(20);not null"`
	Value               decimal.Decimal
	ApplicableDocuments []numbering.DocumentType `gorm:"serializer:json"`
	Active              bool                     `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Tax) TableName() string {
	return "custom_taxes"
}

// NewTax creates a validated custom tax
func NewTax(organizationID uuid.UUID, name string, taxType TaxType, value decimal.Decimal, applicableTo []numbering.DocumentType) (*Tax, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tax name cannot be empty")
	}
	if !taxType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TAX_TYPE", "Tax type must be percentage or fixed")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Tax value cannot be negative")
	}
	if taxType == TaxTypePercentage && value.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_VALUE", "Percentage tax cannot exceed 100")
	}
	for _, docType := range applicableTo {
		if !docType.IsValid() {
			return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Unknown document type in applicability list")
		}
	}

	return &Tax{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		Name:                      name,
		Type:                      taxType,
		Value:                     value,
		ApplicableDocuments:       applicableTo,
		Active:                    true,
	}, nil
}

// AppliesTo reports whether the tax covers the given document kind
func (t *Tax) AppliesTo(docType numbering.DocumentType) bool {
	if !t.Active {
		return false
	}
	for _, dt := range t.ApplicableDocuments {
		if dt == docType {
			return true
		}
	}
	return false
}

// Activate marks the tax as chargeable on new documents
func (t *Tax) Activate() {
	t.Active = true
	t.UpdatedAt = time.Now()
}

// Deactivate excludes the tax from all future computations
func (t *Tax) Deactivate() {
	t.Active = false
	t.UpdatedAt = time.Now()
}

// AmountOn computes the tax amount for the given taxable base, rounded to
// two decimal places
func (t *Tax) AmountOn(base decimal.Decimal) decimal.Decimal {
	if t.Type == TaxTypeFixed {
		return t.Value.Round(2)
	}
	return base.Mul(t.Value).Div(hundred).Round(2)
}

// AppliedTax is one line of a tax computation result
type AppliedTax struct {
	Name   string          `json:"name"`
	Type   TaxType         `json:"type"`
	Value  decimal.Decimal `json:"value"`
	Amount decimal.Decimal `json:"amount"`
}

// Computation is the result of applying a tax set to a base amount
type Computation struct {
	Base    decimal.Decimal `json:"base"`
	Applied []AppliedTax    `json:"applied"`
	Total   decimal.Decimal `json:"total"`
}

// Compute applies every tax covering docType to the base amount. A tax
// that does not list docType is skipped entirely, it contributes neither
// an amount nor a line in the result. Total is base plus all applied
// amounts.
func Compute(base decimal.Decimal, docType numbering.DocumentType, taxes []Tax) Computation {
	result := Computation{
		Base:    base,
		Applied: make([]AppliedTax, 0, len(taxes)),
		Total:   base,
	}

	for idx := range taxes {
		t := &taxes[idx]
		if !t.AppliesTo(docType) {
			continue
		}
		amount := t.AmountOn(base)
		result.Applied = append(result.Applied, AppliedTax{
			Name:   t.Name,
			Type:   t.Type,
			Value:  t.Value,
			Amount: amount,
		})
		result.Total = result.Total.Add(amount)
	}
	return result
}
