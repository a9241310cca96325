package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionTypePredicates(t *testing.T) {
	itemTypes := []TransactionType{TypeSale, TypePurchase, TypeReturn}
	amountTypes := []TransactionType{TypePayment, TypeReturnPayment, TypeTransfer}

	for _, typ := range itemTypes {
		assert.True(t, typ.Valid(), "%s should be valid", typ)
		assert.True(t, typ.RequiresItems(), "%s should require items", typ)
		assert.False(t, typ.RequiresAmount(), "%s should not require an amount", typ)
	}
	for _, typ := range amountTypes {
		assert.True(t, typ.Valid(), "%s should be valid", typ)
		assert.False(t, typ.RequiresItems(), "%s should not require items", typ)
		assert.True(t, typ.RequiresAmount(), "%s should require an amount", typ)
	}

	assert.False(t, TransactionType("GIFT").Valid())
	assert.False(t, TransactionType("").Valid())
}

func TestReceiverBalanceAmount(t *testing.T) {
	rate := decimal.NewFromFloat(3.67)
	receiver := "client-2"
	txn := Transaction{
		Type:                 TypeTransfer,
		ReceiverClientID:     &receiver,
		ReceiverExchangeRate: &rate,
		UsdAmount:            decimal.NewFromInt(100),
	}
	assert.True(t, txn.ReceiverBalanceAmount().Equal(decimal.NewFromInt(367)))

	// Non-transfer types never have a receiver leg.
	payment := Transaction{Type: TypePayment, UsdAmount: decimal.NewFromInt(100)}
	assert.True(t, payment.ReceiverBalanceAmount().IsZero())
}
