package services

import (
	"fmt"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	"github.com/bekzod-t/trade_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// usdScale is the fixed-point scale for currency-to-USD division.
const usdScale = 6

// priceDeviationThreshold is the relative deviation above which a supplied
// override price produces an audit note (5%).
var priceDeviationThreshold = decimal.NewFromFloat(0.05)

// PricedItem is the result of pricing one transaction line into USD.
type PricedItem struct {
	ProductID    string
	Quantity     int64
	UnitPriceUsd decimal.Decimal
	TotalUsd     decimal.Decimal
	// AuditNote is non-empty when an override price deviated from the
	// catalogue price by more than the threshold.
	AuditNote string
}

// LineItemPricer prices one transaction line (product, quantity, optional
// override price) into USD and flags price anomalies for audit.
type LineItemPricer struct{}

// NewLineItemPricer creates a new LineItemPricer.
func NewLineItemPricer() *LineItemPricer {
	return &LineItemPricer{}
}

// Price converts one requested line into USD. The base price in the
// transaction currency is product.PriceUsd * rate; a caller-supplied positive
// override replaces it. Conversion back to USD divides by the rate at 6
// fractional digits, round-half-up, unless the transaction currency is
// already USD.
//
// audit controls deviation notes: synthetic items replayed during
// recalculation pass false so historical notes are not duplicated.
func (p *LineItemPricer) Price(item dto.TransactionItemRequest, product domain.Product, rate decimal.Decimal, currencyCode string, audit bool) (PricedItem, error) {
	if item.Quantity <= 0 {
		return PricedItem{}, fmt.Errorf("%w: got %d for product %s", apperrors.ErrInvalidQuantity, item.Quantity, item.ProductID)
	}

	// Base price in the transaction currency.
	basePrice := product.PriceUsd.Mul(rate)

	effectivePrice := basePrice
	overridden := false
	if item.Price != nil && item.Price.IsPositive() {
		effectivePrice = *item.Price
		overridden = true
	}

	unitPriceUsd := effectivePrice
	if currencyCode != domain.CodeUSD {
		unitPriceUsd = effectivePrice.DivRound(rate, usdScale)
	}

	priced := PricedItem{
		ProductID:    item.ProductID,
		Quantity:     item.Quantity,
		UnitPriceUsd: unitPriceUsd,
		TotalUsd:     unitPriceUsd.Mul(decimal.NewFromInt(item.Quantity)),
	}

	if overridden && audit && basePrice.IsPositive() {
		deviation := effectivePrice.Sub(basePrice).Abs().DivRound(basePrice, usdScale)
		if deviation.GreaterThan(priceDeviationThreshold) {
			priced.AuditNote = fmt.Sprintf(
				"price deviation on product %s: base price %s, actual price %s, deviation %s%%",
				product.Name, basePrice, effectivePrice,
				deviation.Mul(decimal.NewFromInt(100)).StringFixed(2),
			)
		}
	}

	return priced, nil
}
