package currency

import (
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRate is an organization-maintained conversion rate between two
// currencies. Rates are stored one way; conversion falls back to the
// inverse pair when the direct rate is missing.
type ExchangeRate struct {
	shared.OrganizationAggregateRoot
	From valueobject.Currency `gorm:"column:from_currency;type:varchar(3);not null;index:idx_rate_pair"`
	To   valueobject.Currency `gorm:"column:to_currency;type:varchar(3);not null;index:idx_rate_pair"`
	Rate decimal.Decimal      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExchangeRate) TableName() string {
	return "exchange_rates"
}

// NewExchangeRate creates a validated exchange rate
func NewExchangeRate(organizationID uuid.UUID, from, to valueobject.Currency, rate decimal.Decimal) (*ExchangeRate, error) {
	if !from.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unknown source currency")
	}
	if !to.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unknown target currency")
	}
	if from == to {
		return nil, shared.NewDomainError("INVALID_PAIR", "Source and target currency must differ")
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}

	return &ExchangeRate{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		From:                      from,
		To:                        to,
		Rate:                      rate,
	}, nil
}

// UpdateRate replaces the rate value
func (r *ExchangeRate) UpdateRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}
	r.Rate = rate
	r.UpdatedAt = time.Now()
	return nil
}

// RateTable is a set of exchange rates used for one conversion pass
type RateTable struct {
	rates map[pairKey]decimal.Decimal
}

type pairKey struct {
	from valueobject.Currency
	to   valueobject.Currency
}

// NewRateTable builds a lookup table from stored rates
func NewRateTable(rates []ExchangeRate) *RateTable {
	table := &RateTable{rates: make(map[pairKey]decimal.Decimal, len(rates))}
	for idx := range rates {
		r := &rates[idx]
		table.rates[pairKey{from: r.From, to: r.To}] = r.Rate
	}
	return table
}

// Convert converts an amount between currencies. Resolution order: same
// currency passes through, then the direct rate multiplies, then the
// inverse rate divides. When neither pair is known the amount is returned
// unchanged with ok=false so the caller can surface a warning.
func (t *RateTable) Convert(amount decimal.Decimal, from, to valueobject.Currency) (converted decimal.Decimal, ok bool) {
	if from == to {
		return amount, true
	}
	if rate, found := t.rates[pairKey{from: from, to: to}]; found {
		return amount.Mul(rate).Round(2), true
	}
	if rate, found := t.rates[pairKey{from: to, to: from}]; found {
		return amount.Div(rate).Round(2), true
	}
	return amount, false
}
