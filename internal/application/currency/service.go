package currency

import (
	"context"

	"github.com/facturio/backend/internal/domain/currency"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UpsertRateRequest carries an exchange rate definition
type UpsertRateRequest struct {
	From valueobject.Currency `json:"from" binding:"required"`
	To   valueobject.Currency `json:"to" binding:"required"`
	Rate decimal.Decimal      `json:"rate" binding:"required"`
}

// CurrencyService manages exchange rates and converts amounts
type CurrencyService struct {
	rateRepo currency.ExchangeRateRepository
	logger   *zap.Logger
}

// NewCurrencyService creates a new CurrencyService
func NewCurrencyService(rateRepo currency.ExchangeRateRepository, logger *zap.Logger) *CurrencyService {
	return &CurrencyService{rateRepo: rateRepo, logger: logger}
}

// UpsertRate creates or updates the rate for a currency pair
func (s *CurrencyService) UpsertRate(ctx context.Context, organizationID uuid.UUID, req UpsertRateRequest) (*currency.ExchangeRate, error) {
	existing, err := s.rateRepo.FindByPair(ctx, organizationID, req.From, req.To)
	if err == nil {
		if updateErr := existing.UpdateRate(req.Rate); updateErr != nil {
			return nil, updateErr
		}
		if saveErr := s.rateRepo.Save(ctx, existing); saveErr != nil {
			return nil, saveErr
		}
		return existing, nil
	}

	rate, err := currency.NewExchangeRate(organizationID, req.From, req.To, req.Rate)
	if err != nil {
		return nil, err
	}
	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// ListRates returns every stored rate of the organization
func (s *CurrencyService) ListRates(ctx context.Context, organizationID uuid.UUID) ([]currency.ExchangeRate, error) {
	return s.rateRepo.FindAllForOrganization(ctx, organizationID, shared.DefaultFilter())
}

// DeleteRate removes a stored exchange rate
func (s *CurrencyService) DeleteRate(ctx context.Context, organizationID, rateID uuid.UUID) error {
	if _, err := s.rateRepo.FindByIDForOrganization(ctx, organizationID, rateID); err != nil {
		return err
	}
	return s.rateRepo.Delete(ctx, rateID)
}

// Convert converts an amount between currencies using the organization's
// stored rates. When no rate exists in either direction the amount is
// returned unchanged and a warning is logged; conversion is best-effort
// display logic, never a hard failure.
func (s *CurrencyService) Convert(ctx context.Context, organizationID uuid.UUID, amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	rates, err := s.rateRepo.FindAllForOrganization(ctx, organizationID, shared.DefaultFilter())
	if err != nil {
		return amount, err
	}

	converted, ok := currency.NewRateTable(rates).Convert(amount, from, to)
	if !ok {
		s.logger.Warn("no exchange rate for pair, amount returned unchanged",
			zap.String("organization_id", organizationID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
	}
	return converted, nil
}
