package numbering

import (
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentType identifies the kind of business document a number is issued for
type DocumentType string

const (
	DocumentTypeInvoice       DocumentType = "invoice"
	DocumentTypeQuote         DocumentType = "quote"
	DocumentTypeDeliveryNote  DocumentType = "delivery_note"
	DocumentTypeCreditNote    DocumentType = "credit_note"
	DocumentTypePurchaseOrder DocumentType = "purchase_order"
)

// IsValid checks if the document type is one of the five supported kinds
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentTypeInvoice, DocumentTypeQuote, DocumentTypeDeliveryNote,
		DocumentTypeCreditNote, DocumentTypePurchaseOrder:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (d DocumentType) String() string {
	return string(d)
}

// NumberFormat controls how the sequence value is rendered
type NumberFormat string

const (
	FormatIncremental NumberFormat = "incremental" // plain counter
	FormatYearly      NumberFormat = "yearly"      // YYYY-NNNN
	FormatMonthly     NumberFormat = "monthly"     // YYYYMM-NNN
)

// IsValid checks if the format is supported
func (f NumberFormat) IsValid() bool {
	switch f {
	case FormatIncremental, FormatYearly, FormatMonthly:
		return true
	}
	return false
}

// ResetFrequency controls when the counter restarts at 1
type ResetFrequency string

const (
	ResetNever   ResetFrequency = "never"
	ResetMonthly ResetFrequency = "monthly"
	ResetYearly  ResetFrequency = "yearly"
)

// IsValid checks if the reset frequency is supported
func (r ResetFrequency) IsValid() bool {
	switch r {
	case ResetNever, ResetMonthly, ResetYearly:
		return true
	}
	return false
}

// DocumentNumberingPolicy holds the per-organization, per-document-type
// numbering configuration. There is at most one policy row per
// (organization, document type) pair.
//
// The counter is only ever advanced through PolicyRepository.NextNumber,
// which performs the fetch-and-increment atomically inside a transaction.
// Callers must never read NextNumber, add one and write it back.
type DocumentNumberingPolicy struct {
	shared.BaseAggregateRoot
	OrganizationID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_numbering_org_doctype"`
	CreatedBy       *uuid.UUID     `gorm:"type:uuid;index"`
	DocumentType    DocumentType   `gorm:"type:varchar(20);not null;uniqueIndex:idx_numbering_org_doctype"`
	Prefix          string         `gorm:"type:varchar(10);not null"`
	Format          NumberFormat   `gorm:"type:varchar(20);not null;default:'yearly'"`
	NextNumber      int64          `gorm:"not null;default:1"`
	ResetFrequency  ResetFrequency `gorm:"type:varchar(20);not null;default:'yearly'"`
	LastResetPeriod string         `gorm:"type:varchar(10)"` // period key of the last issued number
}

// TableName returns the table name for GORM
func (DocumentNumberingPolicy) TableName() string {
	return "document_numbering_policies"
}

// NewDocumentNumberingPolicy creates a validated numbering policy
func NewDocumentNumberingPolicy(organizationID uuid.UUID, docType DocumentType, prefix string, format NumberFormat, reset ResetFrequency) (*DocumentNumberingPolicy, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", fmt.Sprintf("Unknown document type %q", docType))
	}
	if prefix == "" {
		return nil, shared.NewDomainError("INVALID_PREFIX", "Prefix cannot be empty")
	}
	if len(prefix) > 10 {
		return nil, shared.NewDomainError("INVALID_PREFIX", "Prefix cannot exceed 10 characters")
	}
	if !format.IsValid() {
		return nil, shared.NewDomainError("INVALID_FORMAT", fmt.Sprintf("Unknown number format %q", format))
	}
	if !reset.IsValid() {
		return nil, shared.NewDomainError("INVALID_RESET_FREQUENCY", fmt.Sprintf("Unknown reset frequency %q", reset))
	}

	return &DocumentNumberingPolicy{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrganizationID:    organizationID,
		DocumentType:      docType,
		Prefix:            prefix,
		Format:            format,
		NextNumber:        1,
		ResetFrequency:    reset,
	}, nil
}

// UpdateFormat changes prefix, format and reset frequency without touching
// the counter state
func (p *DocumentNumberingPolicy) UpdateFormat(prefix string, format NumberFormat, reset ResetFrequency) error {
	if prefix == "" || len(prefix) > 10 {
		return shared.NewDomainError("INVALID_PREFIX", "Prefix must be between 1 and 10 characters")
	}
	if !format.IsValid() {
		return shared.NewDomainError("INVALID_FORMAT", fmt.Sprintf("Unknown number format %q", format))
	}
	if !reset.IsValid() {
		return shared.NewDomainError("INVALID_RESET_FREQUENCY", fmt.Sprintf("Unknown reset frequency %q", reset))
	}
	p.Prefix = prefix
	p.Format = format
	p.ResetFrequency = reset
	p.UpdatedAt = time.Now()
	return nil
}

// PeriodKey returns the reset-period identifier for the given instant:
// "" for never, "2026" for yearly, "2026-01" for monthly.
func (p *DocumentNumberingPolicy) PeriodKey(now time.Time) string {
	switch p.ResetFrequency {
	case ResetYearly:
		return now.Format("2006")
	case ResetMonthly:
		return now.Format("2006-01")
	default:
		return ""
	}
}

// ShouldReset reports whether the counter must restart at 1 because the
// reset period rolled over since the last issued number
func (p *DocumentNumberingPolicy) ShouldReset(now time.Time) bool {
	if p.ResetFrequency == ResetNever {
		return false
	}
	return p.LastResetPeriod != p.PeriodKey(now)
}

// Advance consumes the current sequence value and moves the counter forward,
// applying the reset policy first. It returns the sequence value to render.
// Must only be called inside the repository's serialized increment.
func (p *DocumentNumberingPolicy) Advance(now time.Time) int64 {
	if p.ShouldReset(now) {
		p.NextNumber = 1
	}
	seq := p.NextNumber
	p.NextNumber = seq + 1
	p.LastResetPeriod = p.PeriodKey(now)
	p.UpdatedAt = now
	return seq
}

// FormatNumber renders a sequence value according to the policy format.
// The prefix is prepended verbatim, so "FAC-" with format yearly produces
// "FAC-2026-0001".
func (p *DocumentNumberingPolicy) FormatNumber(seq int64, now time.Time) string {
	switch p.Format {
	case FormatYearly:
		return fmt.Sprintf("%s%s-%04d", p.Prefix, now.Format("2006"), seq)
	case FormatMonthly:
		return fmt.Sprintf("%s%s-%03d", p.Prefix, now.Format("200601"), seq)
	default:
		return fmt.Sprintf("%s%d", p.Prefix, seq)
	}
}
