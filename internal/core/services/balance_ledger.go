package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	"github.com/bekzod-t/trade_ledger_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// BalanceLedger applies and reverts balance effects against persisted client
// rows. Effects are debt-signed: a positive effect increases the client's
// debt, so the stored balance is decremented by it. The mutation itself is a
// single conditional atomic increment in the data store; the ledger holds no
// in-memory state and never retries.
type BalanceLedger struct {
	clientRepo portsrepo.ClientRepositoryFacade
}

// NewBalanceLedger creates a new BalanceLedger.
func NewBalanceLedger(clientRepo portsrepo.ClientRepositoryFacade) *BalanceLedger {
	return &BalanceLedger{clientRepo: clientRepo}
}

// Apply applies a debt-signed effect to the client's stored balance. A zero
// effect is a no-op. Zero affected rows surfaces as ErrConcurrentModification
// and is never retried automatically.
func (l *BalanceLedger) Apply(ctx context.Context, clientID string, effect decimal.Decimal) error {
	if effect.IsZero() {
		return nil
	}

	rows, err := l.clientRepo.ApplyBalanceDelta(ctx, clientID, effect.Neg())
	if err != nil {
		return fmt.Errorf("failed to apply balance delta for client %s: %w", clientID, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: client %s", apperrors.ErrConcurrentModification, clientID)
	}
	return nil
}

// Revert undoes a previously applied effect: the exact additive inverse of
// Apply, so apply-then-revert leaves the stored balance unchanged.
func (l *BalanceLedger) Revert(ctx context.Context, clientID string, effect decimal.Decimal) error {
	return l.Apply(ctx, clientID, effect.Neg())
}

// ApplyTransfer applies the sender and receiver legs of a TRANSFER. When the
// receiver leg fails after the sender leg succeeded, the sender leg is
// explicitly reverted rather than left half-applied; a failed compensating
// revert is fatal and surfaces as ErrReconciliationRequired.
func (l *BalanceLedger) ApplyTransfer(ctx context.Context, senderID string, senderEffect decimal.Decimal, receiverID string, receiverEffect decimal.Decimal) error {
	if err := l.Apply(ctx, senderID, senderEffect); err != nil {
		return err
	}

	if err := l.Apply(ctx, receiverID, receiverEffect); err != nil {
		if revErr := l.Revert(ctx, senderID, senderEffect); revErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Compensating revert of sender leg failed",
				slog.String("sender_client_id", senderID),
				slog.String("error", revErr.Error()))
			return fmt.Errorf("%w: sender %s after receiver leg failed: %v", apperrors.ErrReconciliationRequired, senderID, err)
		}
		return err
	}
	return nil
}

// RevertTransfer undoes both legs of a previously applied TRANSFER, receiver
// first. When the sender revert fails after the receiver revert succeeded,
// the receiver leg is re-applied; a failure there is fatal.
func (l *BalanceLedger) RevertTransfer(ctx context.Context, senderID string, senderEffect decimal.Decimal, receiverID string, receiverEffect decimal.Decimal) error {
	if err := l.Revert(ctx, receiverID, receiverEffect); err != nil {
		return err
	}

	if err := l.Revert(ctx, senderID, senderEffect); err != nil {
		if reapplyErr := l.Apply(ctx, receiverID, receiverEffect); reapplyErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Re-apply of receiver leg failed during transfer revert",
				slog.String("receiver_client_id", receiverID),
				slog.String("error", reapplyErr.Error()))
			return fmt.Errorf("%w: receiver %s after sender revert failed: %v", apperrors.ErrReconciliationRequired, receiverID, err)
		}
		return err
	}
	return nil
}
