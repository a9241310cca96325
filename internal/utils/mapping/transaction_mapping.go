package mapping

import (
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	"github.com/bekzod-t/trade_ledger_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        d.TransactionID,
		Type:                 string(d.Type),
		Status:               string(d.Status),
		ClientID:             d.ClientID,
		ReceiverClientID:     d.ReceiverClientID,
		CurrencyID:           d.CurrencyID,
		ExchangeRate:         d.ExchangeRate,
		ClientExchangeRate:   d.ClientExchangeRate,
		ReceiverExchangeRate: d.ReceiverExchangeRate,
		OriginalAmount:       d.OriginalAmount,
		UsdAmount:            d.UsdAmount,
		BalanceAmount:        d.BalanceAmount,
		FeeAmount:            d.FeeAmount,
		Description:          d.Description,
		DeletedAt:            d.DeletedAt,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		Type:                 domain.TransactionType(m.Type),
		Status:               domain.TransactionStatus(m.Status),
		ClientID:             m.ClientID,
		ReceiverClientID:     m.ReceiverClientID,
		CurrencyID:           m.CurrencyID,
		ExchangeRate:         m.ExchangeRate,
		ClientExchangeRate:   m.ClientExchangeRate,
		ReceiverExchangeRate: m.ReceiverExchangeRate,
		OriginalAmount:       m.OriginalAmount,
		UsdAmount:            m.UsdAmount,
		BalanceAmount:        m.BalanceAmount,
		FeeAmount:            m.FeeAmount,
		Description:          m.Description,
		DeletedAt:            m.DeletedAt,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransactionItem converts a domain TransactionItem to a model TransactionItem
func ToModelTransactionItem(d domain.TransactionItem) models.TransactionItem {
	return models.TransactionItem{
		ItemID:        d.ItemID,
		TransactionID: d.TransactionID,
		ProductID:     d.ProductID,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		TotalPrice:    d.TotalPrice,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransactionItem converts a model TransactionItem to a domain TransactionItem
func ToDomainTransactionItem(m models.TransactionItem) domain.TransactionItem {
	return domain.TransactionItem{
		ItemID:        m.ItemID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		TotalPrice:    m.TotalPrice,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionItemSlice converts a slice of model items to domain items
func ToDomainTransactionItemSlice(ms []models.TransactionItem) []domain.TransactionItem {
	items := make([]domain.TransactionItem, len(ms))
	for i, m := range ms {
		items[i] = ToDomainTransactionItem(m)
	}
	return items
}

// ToDomainTransactionSlice converts a slice of model transactions to domain transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	txns := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		txns[i] = ToDomainTransaction(m)
	}
	return txns
}

// ToDomainAuditEntry converts a model TransactionAuditEntry to a domain TransactionAuditEntry
func ToDomainAuditEntry(m models.TransactionAuditEntry) domain.TransactionAuditEntry {
	return domain.TransactionAuditEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}
