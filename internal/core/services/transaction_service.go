package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/bekzod-t/trade_ledger_app/internal/core/ports/services"
	"github.com/bekzod-t/trade_ledger_app/internal/dto"
	"github.com/bekzod-t/trade_ledger_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// transactionService orchestrates the transaction lifecycle: create, update
// (revert, recalculate, reapply) and delete (revert, soft-remove). All
// validation and lookups happen before any persistence or balance mutation.
type transactionService struct {
	txnRepo      portsrepo.TransactionRepositoryFacade
	clientRepo   portsrepo.ClientRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	auditRepo    portsrepo.AuditLogRepositoryFacade
	calculator   *TransactionCalculator
	ledger       *BalanceLedger
}

// NewTransactionService creates the lifecycle service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	clientRepo portsrepo.ClientRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	auditRepo portsrepo.AuditLogRepositoryFacade,
	calculator *TransactionCalculator,
	ledger *BalanceLedger,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:      txnRepo,
		clientRepo:   clientRepo,
		currencyRepo: currencyRepo,
		auditRepo:    auditRepo,
		calculator:   calculator,
		ledger:       ledger,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates the request, computes the canonical ledger
// fields, persists the transaction with its items in one unit of work and
// applies the balance effect(s). A failed balance application unwinds the
// persisted transaction so the store is never left inconsistent.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actingUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	typ := domain.TransactionType(req.Type)
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrBadRequest, req.Type)
	}

	client, err := s.findClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	currency, err := s.findCurrency(ctx, req.CurrencyID)
	if err != nil {
		return nil, err
	}
	clientCurrency, err := s.findCurrency(ctx, client.BalanceCurrencyID)
	if err != nil {
		return nil, err
	}

	var receiver *domain.Client
	var receiverCurrency *domain.Currency
	if typ == domain.TypeTransfer {
		if req.ReceiverClientID == nil || *req.ReceiverClientID == "" {
			return nil, fmt.Errorf("%w: TRANSFER requires receiverClientID", apperrors.ErrBadRequest)
		}
		if *req.ReceiverClientID == req.ClientID {
			return nil, fmt.Errorf("%w: TRANSFER sender and receiver must differ", apperrors.ErrBadRequest)
		}
		receiver, err = s.findClient(ctx, *req.ReceiverClientID)
		if err != nil {
			return nil, err
		}
		receiverCurrency, err = s.findCurrency(ctx, receiver.BalanceCurrencyID)
		if err != nil {
			return nil, err
		}
	} else if req.ReceiverClientID != nil {
		return nil, fmt.Errorf("%w: receiverClientID is only valid for TRANSFER", apperrors.ErrBadRequest)
	}

	fee := decimal.Zero
	if req.FeeAmount != nil {
		if req.FeeAmount.IsNegative() {
			return nil, fmt.Errorf("%w: feeAmount must not be negative", apperrors.ErrBadRequest)
		}
		fee = *req.FeeAmount
	}

	result, err := s.calculator.Calculate(ctx, CalculationInput{
		Type:                         typ,
		Currency:                     *currency,
		ClientCurrency:               *clientCurrency,
		ReceiverCurrency:             receiverCurrency,
		ExchangeRateOverride:         req.ExchangeRate,
		ClientExchangeRateOverride:   req.ClientExchangeRate,
		ReceiverExchangeRateOverride: req.ReceiverExchangeRate,
		OriginalAmount:               req.OriginalAmount,
		FeeAmount:                    fee,
		Items:                        req.Items,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txnID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actingUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actingUserID,
	}

	txn := domain.Transaction{
		TransactionID:        txnID,
		Type:                 typ,
		Status:               domain.StatusCompleted,
		ClientID:             req.ClientID,
		ReceiverClientID:     req.ReceiverClientID,
		CurrencyID:           req.CurrencyID,
		ExchangeRate:         result.ExchangeRate,
		ClientExchangeRate:   result.ClientExchangeRate,
		ReceiverExchangeRate: result.ReceiverExchangeRate,
		OriginalAmount:       req.OriginalAmount,
		UsdAmount:            result.UsdAmount,
		BalanceAmount:        result.BalanceAmount,
		FeeAmount:            fee,
		Description:          appendAuditNotes(req.Description, result.AuditNotes),
		AuditFields:          audit,
	}

	items := toDomainItems(txnID, result.Items, audit)
	entries := buildAuditEntries(txnID, result.AuditNotes, now, actingUserID)

	if err := s.txnRepo.SaveTransaction(ctx, txn, items, entries); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	if err := s.applyEffects(ctx, &txn); err != nil {
		// The transaction is persisted but its effect is not on the ledger;
		// unwind the persistence so the two never disagree.
		if delErr := s.txnRepo.HardDeleteTransaction(ctx, txnID); delErr != nil {
			logger.Error("Failed to unwind transaction after balance application failure",
				slog.String("transaction_id", txnID), slog.String("error", delErr.Error()))
			return nil, fmt.Errorf("%w: transaction %s: %v", apperrors.ErrReconciliationRequired, txnID, err)
		}
		return nil, err
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txnID),
		slog.String("type", string(typ)),
		slog.String("usd_amount", txn.UsdAmount.String()))

	txn.Items = items
	return &txn, nil
}

// UpdateTransaction reverts the currently stored balance effect (computed
// from the persisted amounts, never from new inputs), merges the request onto
// the stored transaction, reruns the calculation, persists and reapplies the
// new effect. Both rate values are re-validated even when unchanged.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, actingUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stored, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	currencyID := stored.CurrencyID
	if req.CurrencyID != nil {
		currencyID = *req.CurrencyID
	}
	currency, err := s.findCurrency(ctx, currencyID)
	if err != nil {
		return nil, err
	}

	client, err := s.findClient(ctx, stored.ClientID)
	if err != nil {
		return nil, err
	}
	clientCurrency, err := s.findCurrency(ctx, client.BalanceCurrencyID)
	if err != nil {
		return nil, err
	}

	var receiverCurrency *domain.Currency
	if stored.Type == domain.TypeTransfer {
		receiver, err := s.findClient(ctx, *stored.ReceiverClientID)
		if err != nil {
			return nil, err
		}
		receiverCurrency, err = s.findCurrency(ctx, receiver.BalanceCurrencyID)
		if err != nil {
			return nil, err
		}
	}

	// Source each input from the request when supplied, else from the stored
	// transaction. Stored rates are passed as overrides so they run through
	// the same validation as fresh ones.
	input := CalculationInput{
		Type:                         stored.Type,
		Currency:                     *currency,
		ClientCurrency:               *clientCurrency,
		ReceiverCurrency:             receiverCurrency,
		ExchangeRateOverride:         mergeDecimal(req.ExchangeRate, stored.ExchangeRate),
		ClientExchangeRateOverride:   mergeDecimal(req.ClientExchangeRate, stored.ClientExchangeRate),
		ReceiverExchangeRateOverride: stored.ReceiverExchangeRate,
		OriginalAmount:               stored.OriginalAmount,
		FeeAmount:                    stored.FeeAmount,
	}
	if req.ReceiverExchangeRate != nil {
		input.ReceiverExchangeRateOverride = req.ReceiverExchangeRate
	}
	if req.OriginalAmount != nil {
		input.OriginalAmount = req.OriginalAmount
	}
	if req.FeeAmount != nil {
		if req.FeeAmount.IsNegative() {
			return nil, fmt.Errorf("%w: feeAmount must not be negative", apperrors.ErrBadRequest)
		}
		input.FeeAmount = *req.FeeAmount
	}

	switch {
	case len(req.Items) > 0:
		input.Items = req.Items
	case stored.Type.RequiresItems():
		// No new items supplied: replay the persisted ones, carrying their
		// stored USD value through the freshly resolved rate so re-pricing
		// does not drift, and without re-emitting their audit notes.
		input.Items = synthesizeItems(stored.Items, *input.ExchangeRateOverride, currency.Code)
		input.SuppressItemAudit = true
	}

	// Revert the stored effect before recalculating. Nothing has been
	// modified yet, so a failure here aborts the update cleanly.
	if err := s.revertEffects(ctx, stored); err != nil {
		return nil, err
	}

	result, err := s.calculator.Calculate(ctx, input)
	if err != nil {
		return nil, s.restoreEffects(ctx, stored, err)
	}

	now := time.Now().UTC()
	updated := *stored
	updated.CurrencyID = currencyID
	updated.ExchangeRate = result.ExchangeRate
	updated.ClientExchangeRate = result.ClientExchangeRate
	updated.ReceiverExchangeRate = result.ReceiverExchangeRate
	updated.OriginalAmount = input.OriginalAmount
	updated.UsdAmount = result.UsdAmount
	updated.BalanceAmount = result.BalanceAmount
	updated.FeeAmount = input.FeeAmount
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actingUserID

	description := stored.Description
	if req.Description != nil {
		description = *req.Description
	}
	updated.Description = appendAuditNotes(description, result.AuditNotes)

	itemAudit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actingUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actingUserID,
	}
	items := toDomainItems(transactionID, result.Items, itemAudit)
	entries := buildAuditEntries(transactionID, result.AuditNotes, now, actingUserID)

	if err := s.txnRepo.UpdateTransaction(ctx, updated, items, entries); err != nil {
		logger.Error("Failed to persist transaction update", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, s.restoreEffects(ctx, stored, fmt.Errorf("failed to persist transaction update: %w", err))
	}

	if err := s.applyEffects(ctx, &updated); err != nil {
		// New state persisted but not applied to the ledger: put the stored
		// record and its effect back.
		if restoreErr := s.txnRepo.UpdateTransaction(ctx, *stored, stored.Items, nil); restoreErr != nil {
			return nil, fmt.Errorf("%w: transaction %s: %v", apperrors.ErrReconciliationRequired, transactionID, err)
		}
		return nil, s.restoreEffects(ctx, stored, err)
	}

	logger.Info("Transaction updated", slog.String("transaction_id", transactionID))
	updated.Items = items
	return &updated, nil
}

// DeleteTransaction reverts the transaction's balance effect and then
// soft-deletes it, keeping the record for audit. If the revert fails the
// delete fails and the transaction remains active.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, actingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	stored, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	if err := s.revertEffects(ctx, stored); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.txnRepo.SoftDeleteTransaction(ctx, transactionID, domain.StatusCancelled, actingUserID, now); err != nil {
		logger.Error("Failed to soft-delete transaction after revert", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return s.restoreEffects(ctx, stored, fmt.Errorf("failed to soft-delete transaction: %w", err))
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// GetTransactionByID returns an active transaction with its items.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactionsByClient returns a page of the client's transactions.
func (s *transactionService) ListTransactionsByClient(ctx context.Context, clientID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByClient(ctx, clientID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for client %s: %w", clientID, err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// ListAuditEntries returns the structured audit log of one transaction.
func (s *transactionService) ListAuditEntries(ctx context.Context, transactionID string) ([]domain.TransactionAuditEntry, error) {
	entries, err := s.auditRepo.ListEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries for transaction %s: %w", transactionID, err)
	}
	return entries, nil
}

// applyEffects applies the transaction's balance effect(s): one leg for most
// types, sender and receiver legs for TRANSFER.
func (s *transactionService) applyEffects(ctx context.Context, txn *domain.Transaction) error {
	if txn.Type == domain.TypeTransfer {
		return s.ledger.ApplyTransfer(ctx, txn.ClientID, txn.BalanceAmount, *txn.ReceiverClientID, txn.ReceiverBalanceAmount())
	}
	return s.ledger.Apply(ctx, txn.ClientID, txn.BalanceAmount)
}

// revertEffects undoes the transaction's stored balance effect(s).
func (s *transactionService) revertEffects(ctx context.Context, txn *domain.Transaction) error {
	if txn.Type == domain.TypeTransfer {
		return s.ledger.RevertTransfer(ctx, txn.ClientID, txn.BalanceAmount, *txn.ReceiverClientID, txn.ReceiverBalanceAmount())
	}
	return s.ledger.Revert(ctx, txn.ClientID, txn.BalanceAmount)
}

// restoreEffects reapplies a previously reverted effect after a later step
// failed, so the ledger matches the unchanged stored record. A failed
// restore is fatal: the ledger needs manual reconciliation.
func (s *transactionService) restoreEffects(ctx context.Context, txn *domain.Transaction, cause error) error {
	if err := s.applyEffects(ctx, txn); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to restore reverted balance effect",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: transaction %s: %v", apperrors.ErrReconciliationRequired, txn.TransactionID, cause)
	}
	return cause
}

// findClient fetches a client, mapping missing or inactive rows to the
// specific error kinds.
func (s *transactionService) findClient(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrClientNotFound, clientID)
		}
		return nil, fmt.Errorf("failed to fetch client %s: %w", clientID, err)
	}
	if !client.IsActive {
		return nil, fmt.Errorf("%w: client %s is inactive", apperrors.ErrBadRequest, clientID)
	}
	return client, nil
}

func (s *transactionService) findCurrency(ctx context.Context, currencyID string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrCurrencyNotFound, currencyID)
		}
		return nil, fmt.Errorf("failed to fetch currency %s: %w", currencyID, err)
	}
	return currency, nil
}

// mergeDecimal prefers the override when supplied, else the stored value.
func mergeDecimal(override *decimal.Decimal, stored decimal.Decimal) *decimal.Decimal {
	if override != nil {
		return override
	}
	return &stored
}

// synthesizeItems rebuilds request items from persisted ones, carrying the
// stored USD unit price as an explicit override expressed in the transaction
// currency at the given rate.
func synthesizeItems(items []domain.TransactionItem, rate decimal.Decimal, currencyCode string) []dto.TransactionItemRequest {
	reqs := make([]dto.TransactionItemRequest, len(items))
	for i, item := range items {
		price := item.UnitPrice
		if currencyCode != domain.CodeUSD {
			price = item.UnitPrice.Mul(rate)
		}
		reqs[i] = dto.TransactionItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     &price,
		}
	}
	return reqs
}

// toDomainItems assigns identities to priced items.
func toDomainItems(transactionID string, priced []PricedItem, audit domain.AuditFields) []domain.TransactionItem {
	items := make([]domain.TransactionItem, len(priced))
	for i, p := range priced {
		items[i] = domain.TransactionItem{
			ItemID:        uuid.NewString(),
			TransactionID: transactionID,
			ProductID:     p.ProductID,
			Quantity:      p.Quantity,
			UnitPrice:     p.UnitPriceUsd,
			TotalPrice:    p.TotalUsd,
			AuditFields:   audit,
		}
	}
	return items
}

// appendAuditNotes appends pricer notes to the description. Appending is the
// only permitted mutation; existing content is preserved.
func appendAuditNotes(description string, notes []string) string {
	if len(notes) == 0 {
		return description
	}
	parts := make([]string, 0, len(notes)+1)
	if description != "" {
		parts = append(parts, description)
	}
	parts = append(parts, notes...)
	return strings.Join(parts, "\n")
}

func buildAuditEntries(transactionID string, notes []string, now time.Time, userID string) []domain.TransactionAuditEntry {
	if len(notes) == 0 {
		return nil
	}
	entries := make([]domain.TransactionAuditEntry, len(notes))
	for i, note := range notes {
		entries[i] = domain.TransactionAuditEntry{
			EntryID:       uuid.NewString(),
			TransactionID: transactionID,
			Note:          note,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
	}
	return entries
}
