package services

import (
	"context"
	"fmt"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	"github.com/bekzod-t/trade_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// CalculationInput carries everything the calculator needs, pre-fetched by
// the lifecycle: the transaction shape plus the currencies involved. For an
// update, each field holds "new value if supplied, else the stored value".
type CalculationInput struct {
	Type             domain.TransactionType
	Currency         domain.Currency  // transaction currency
	ClientCurrency   domain.Currency  // client's balance currency
	ReceiverCurrency *domain.Currency // TRANSFER only

	ExchangeRateOverride         *decimal.Decimal
	ClientExchangeRateOverride   *decimal.Decimal
	ReceiverExchangeRateOverride *decimal.Decimal

	OriginalAmount *decimal.Decimal
	FeeAmount      decimal.Decimal
	Items          []dto.TransactionItemRequest

	// SuppressItemAudit is set when Items were synthesized from previously
	// persisted items during recalculation, so deviation notes written at
	// create time are not appended again.
	SuppressItemAudit bool
}

// CalculationResult holds the canonical ledger fields derived from one
// request: resolved rates, the authoritative USD pivot amount, the signed
// balance effects and the priced items with their audit notes.
type CalculationResult struct {
	ExchangeRate         decimal.Decimal
	ClientExchangeRate   decimal.Decimal
	ReceiverExchangeRate *decimal.Decimal

	UsdAmount decimal.Decimal
	// BalanceAmount is signed: positive increases the client's debt (their
	// stored balance decreases when applied).
	BalanceAmount decimal.Decimal
	// ReceiverBalanceAmount is the receiver leg of a TRANSFER, priced with
	// the receiver's independently resolved rate and the opposite sign from
	// the sender's delta. Zero otherwise.
	ReceiverBalanceAmount decimal.Decimal

	Items      []PricedItem
	AuditNotes []string
}

// TransactionCalculator turns a validated request into the canonical ledger
// fields. It performs lookups and arithmetic only; no side effects.
type TransactionCalculator struct {
	resolver    *ExchangeRateResolver
	pricer      *LineItemPricer
	productRepo portsrepo.ProductRepositoryFacade
}

// NewTransactionCalculator creates a new TransactionCalculator.
func NewTransactionCalculator(resolver *ExchangeRateResolver, pricer *LineItemPricer, productRepo portsrepo.ProductRepositoryFacade) *TransactionCalculator {
	return &TransactionCalculator{
		resolver:    resolver,
		pricer:      pricer,
		productRepo: productRepo,
	}
}

// validateShape enforces the per-type preconditions before any computation:
// item-bearing types carry items and no stated amount, amount-only types the
// reverse, TRANSFER additionally needs a receiver. Violations fail with
// ErrBadRequest before any side effect occurs.
func validateShape(in CalculationInput) error {
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrBadRequest, in.Type)
	}

	if in.Type.RequiresItems() {
		if len(in.Items) == 0 {
			return fmt.Errorf("%w: %s transaction requires items", apperrors.ErrBadRequest, in.Type)
		}
		if in.OriginalAmount != nil {
			return fmt.Errorf("%w: %s transaction must not carry originalAmount", apperrors.ErrBadRequest, in.Type)
		}
		return nil
	}

	// Amount-only types.
	if len(in.Items) > 0 {
		return fmt.Errorf("%w: %s transaction must not carry items", apperrors.ErrBadRequest, in.Type)
	}
	if in.OriginalAmount == nil || !in.OriginalAmount.IsPositive() {
		return fmt.Errorf("%w: %s transaction requires a positive originalAmount", apperrors.ErrBadRequest, in.Type)
	}
	if in.Type == domain.TypeTransfer && in.ReceiverCurrency == nil {
		return fmt.Errorf("%w: TRANSFER requires a receiver client", apperrors.ErrBadRequest)
	}
	return nil
}

// Calculate runs the common algorithm: resolve rates, price items or convert
// the stated amount, convert the fee, derive the signed balance effects.
func (c *TransactionCalculator) Calculate(ctx context.Context, in CalculationInput) (*CalculationResult, error) {
	if err := validateShape(in); err != nil {
		return nil, err
	}

	rate, err := c.resolver.Resolve(ctx, in.ExchangeRateOverride, in.Currency)
	if err != nil {
		return nil, err
	}
	clientRate, err := c.resolver.Resolve(ctx, in.ClientExchangeRateOverride, in.ClientCurrency)
	if err != nil {
		return nil, err
	}

	result := &CalculationResult{
		ExchangeRate:       rate,
		ClientExchangeRate: clientRate,
	}

	if in.Type.RequiresItems() {
		if err := c.priceItems(ctx, in, rate, result); err != nil {
			return nil, err
		}
	} else {
		result.UsdAmount = toUsd(*in.OriginalAmount, rate, in.Currency.Code)
	}

	feeUsd := decimal.Zero
	if in.FeeAmount.IsPositive() {
		feeUsd = toUsd(in.FeeAmount, rate, in.Currency.Code)
	}

	// Balance effect in the client's balance currency. The fee is billed on
	// top of a sale, but deducted from the value moved by every other type.
	// The source system disagrees with itself here; this is the convention of
	// its non-deprecated path.
	base := result.UsdAmount.Mul(clientRate)
	feeBal := feeUsd.Mul(clientRate)

	switch in.Type {
	case domain.TypeSale:
		result.BalanceAmount = base.Add(feeBal)
	case domain.TypeReturnPayment:
		result.BalanceAmount = base.Sub(feeBal)
	case domain.TypePurchase, domain.TypeReturn, domain.TypePayment:
		result.BalanceAmount = base.Sub(feeBal).Neg()
	case domain.TypeTransfer:
		result.BalanceAmount = base.Sub(feeBal).Neg()
		receiverRate, err := c.resolver.Resolve(ctx, in.ReceiverExchangeRateOverride, *in.ReceiverCurrency)
		if err != nil {
			return nil, err
		}
		result.ReceiverExchangeRate = &receiverRate
		// The receiver leg carries no fee; only the sender's delta does.
		result.ReceiverBalanceAmount = result.UsdAmount.Mul(receiverRate)
	}

	return result, nil
}

// priceItems prices every requested line and sums the USD totals into the
// pivot amount.
func (c *TransactionCalculator) priceItems(ctx context.Context, in CalculationInput, rate decimal.Decimal, result *CalculationResult) error {
	productIDs := make([]string, 0, len(in.Items))
	for _, item := range in.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := c.productRepo.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch products for pricing: %w", err)
	}

	total := decimal.Zero
	result.Items = make([]PricedItem, 0, len(in.Items))
	for _, item := range in.Items {
		product, found := products[item.ProductID]
		if !found {
			return fmt.Errorf("%w: ID %s", apperrors.ErrProductNotFound, item.ProductID)
		}

		priced, err := c.pricer.Price(item, product, rate, in.Currency.Code, !in.SuppressItemAudit)
		if err != nil {
			return err
		}

		result.Items = append(result.Items, priced)
		if priced.AuditNote != "" {
			result.AuditNotes = append(result.AuditNotes, priced.AuditNote)
		}
		total = total.Add(priced.TotalUsd)
	}

	result.UsdAmount = total
	return nil
}

// toUsd converts an amount in the transaction currency to the USD pivot.
func toUsd(amount, rate decimal.Decimal, currencyCode string) decimal.Decimal {
	if currencyCode == domain.CodeUSD {
		return amount
	}
	return amount.DivRound(rate, usdScale)
}
