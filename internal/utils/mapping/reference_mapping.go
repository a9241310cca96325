package mapping

import (
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	"github.com/bekzod-t/trade_ledger_app/internal/models"
)

// ToDomainClient converts a model Client to a domain Client
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:          m.ClientID,
		Name:              m.Name,
		Phone:             m.Phone,
		BalanceCurrencyID: m.BalanceCurrencyID,
		InitialBalance:    m.InitialBalance,
		CurrentBalance:    m.CurrentBalance,
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:   m.ProductID,
		Name:        m.Name,
		PriceUsd:    m.PriceUsd,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyID:  m.CurrencyID,
		Code:        m.Code,
		Name:        m.Name,
		IsBase:      m.IsBase,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID: m.ExchangeRateID,
		CurrencyID:     m.CurrencyID,
		Rate:           m.Rate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
