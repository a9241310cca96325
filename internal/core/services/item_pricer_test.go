package services_test

import (
	"testing"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	"github.com/bekzod-t/trade_ledger_app/internal/core/services"
	"github.com/bekzod-t/trade_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id, name, priceUsd string) domain.Product {
	return domain.Product{ProductID: id, Name: name, PriceUsd: dec(priceUsd), IsActive: true}
}

func TestPrice_CataloguePriceInUSD(t *testing.T) {
	pricer := services.NewLineItemPricer()
	product := testProduct("prod-1", "Widget", "500")

	priced, err := pricer.Price(
		dto.TransactionItemRequest{ProductID: "prod-1", Quantity: 2},
		product, decimal.NewFromInt(1), "USD", true,
	)
	require.NoError(t, err)
	assert.True(t, priced.UnitPriceUsd.Equal(dec("500")))
	assert.True(t, priced.TotalUsd.Equal(dec("1000")))
	assert.Empty(t, priced.AuditNote)
}

func TestPrice_RoundTripThroughForeignCurrency(t *testing.T) {
	pricer := services.NewLineItemPricer()
	product := testProduct("prod-1", "Widget", "500")
	rate := dec("12000")

	// No override: base price is 500 * 12000 UZS, converted back it must be
	// exactly 500 USD again.
	priced, err := pricer.Price(
		dto.TransactionItemRequest{ProductID: "prod-1", Quantity: 3},
		product, rate, "UZS", true,
	)
	require.NoError(t, err)
	assert.True(t, priced.UnitPriceUsd.Equal(dec("500")))
	assert.True(t, priced.TotalUsd.Equal(dec("1500")))
	assert.Empty(t, priced.AuditNote)
}

func TestPrice_OverrideConversionRoundsToSixDigits(t *testing.T) {
	pricer := services.NewLineItemPricer()
	product := testProduct("prod-1", "Widget", "1")
	rate := dec("12000")

	// 12500 / 12000 = 1.0416666... rounds half-up at 6 digits.
	override := dec("12500")
	priced, err := pricer.Price(
		dto.TransactionItemRequest{ProductID: "prod-1", Quantity: 1, Price: &override},
		product, rate, "UZS", true,
	)
	require.NoError(t, err)
	assert.True(t, priced.UnitPriceUsd.Equal(dec("1.041667")),
		"got %s", priced.UnitPriceUsd)
}

func TestPrice_DeviationAboveThresholdProducesAuditNote(t *testing.T) {
	pricer := services.NewLineItemPricer()
	product := testProduct("prod-1", "Widget", "100")

	// Base price 100 USD, override 90 USD: 10% deviation.
	override := dec("90")
	priced, err := pricer.Price(
		dto.TransactionItemRequest{ProductID: "prod-1", Quantity: 1, Price: &override},
		product, decimal.NewFromInt(1), "USD", true,
	)
	require.NoError(t, err)
	require.NotEmpty(t, priced.AuditNote)
	assert.Contains(t, priced.AuditNote, "Widget")
	assert.Contains(t, priced.AuditNote, "100")
	assert.Contains(t, priced.AuditNote, "90")
	assert.Contains(t, priced.AuditNote, "10.00%")
}

func TestPrice_DeviationWithinThresholdIsSilent(t *testing.T) {
	pricer := services.NewLineItemPricer()
	product := testProduct("prod-1", "Widget", "100")

	// 4% deviation stays below the 5% threshold.
	override := dec("96")
	priced, err := pricer.Price(
		dto.TransactionItemRequest{ProductID: "prod-1", Quantity: 1, Price: &override},
		product, decimal.NewFromInt(1), "USD", true,
	)
	require.NoError(t, err)
	assert.Empty(t, priced.AuditNote)
}

func TestPrice_AuditSuppressed(t *testing.T) {
	pricer := services.NewLineItemPricer()
	product := testProduct("prod-1", "Widget", "100")

	override := dec("50")
	priced, err := pricer.Price(
		dto.TransactionItemRequest{ProductID: "prod-1", Quantity: 1, Price: &override},
		product, decimal.NewFromInt(1), "USD", false,
	)
	require.NoError(t, err)
	assert.Empty(t, priced.AuditNote, "suppressed pricing must not emit notes")
	assert.True(t, priced.UnitPriceUsd.Equal(dec("50")), "override still applies")
}

func TestPrice_InvalidQuantity(t *testing.T) {
	pricer := services.NewLineItemPricer()
	product := testProduct("prod-1", "Widget", "100")

	for _, qty := range []int64{0, -3} {
		_, err := pricer.Price(
			dto.TransactionItemRequest{ProductID: "prod-1", Quantity: qty},
			product, decimal.NewFromInt(1), "USD", true,
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)
	}
}

func TestPrice_NonPositiveOverrideIgnored(t *testing.T) {
	pricer := services.NewLineItemPricer()
	product := testProduct("prod-1", "Widget", "100")

	override := decimal.Zero
	priced, err := pricer.Price(
		dto.TransactionItemRequest{ProductID: "prod-1", Quantity: 1, Price: &override},
		product, decimal.NewFromInt(1), "USD", true,
	)
	require.NoError(t, err)
	assert.True(t, priced.UnitPriceUsd.Equal(dec("100")), "zero override falls back to catalogue price")
}
