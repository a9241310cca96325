package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	"github.com/bekzod-t/trade_ledger_app/internal/models"
	"github.com/bekzod-t/trade_ledger_app/internal/utils/mapping"
	"github.com/bekzod-t/trade_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTransactionRepository implements TransactionRepositoryFacade using pgxpool.
type PgxTransactionRepository struct {
	BaseRepository
}

// NewPgxTransactionRepository creates a new PgxTransactionRepository.
func NewPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTransactionRepository implements the facade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `
	transaction_id, type, status, client_id, receiver_client_id, currency_id,
	exchange_rate, client_exchange_rate, receiver_exchange_rate,
	original_amount, usd_amount, balance_amount, fee_amount, description,
	deleted_at, created_at, created_by, last_updated_at, last_updated_by`

const insertItemQuery = `
	INSERT INTO transaction_items (
		item_id, transaction_id, product_id, quantity, unit_price, total_price,
		created_at, created_by, last_updated_at, last_updated_by
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

const insertAuditEntryQuery = `
	INSERT INTO transaction_audit_log (entry_id, transaction_id, note, created_at, created_by)
	VALUES ($1, $2, $3, $4, $5);`

// SaveTransaction inserts the transaction row, its items and its audit
// entries within one DB transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, items []domain.TransactionItem, entries []domain.TransactionAuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once committed

	modelTxn := mapping.ToModelTransaction(txn)
	insertQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);`
	_, err = tx.Exec(ctx, insertQuery,
		modelTxn.TransactionID,
		modelTxn.Type,
		modelTxn.Status,
		modelTxn.ClientID,
		modelTxn.ReceiverClientID,
		modelTxn.CurrencyID,
		modelTxn.ExchangeRate,
		modelTxn.ClientExchangeRate,
		modelTxn.ReceiverExchangeRate,
		modelTxn.OriginalAmount,
		modelTxn.UsdAmount,
		modelTxn.BalanceAmount,
		modelTxn.FeeAmount,
		modelTxn.Description,
		modelTxn.DeletedAt,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+modelTxn.TransactionID, err)
	}

	if err := sendItemAndAuditBatch(ctx, tx, items, entries); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateTransaction rewrites the transaction row and replaces its items
// wholesale within one DB transaction. Audit entries are append-only;
// existing entries are never touched.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, items []domain.TransactionItem, entries []domain.TransactionAuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelTxn := mapping.ToModelTransaction(txn)
	updateQuery := `
		UPDATE transactions SET
			currency_id = $2,
			exchange_rate = $3,
			client_exchange_rate = $4,
			receiver_exchange_rate = $5,
			original_amount = $6,
			usd_amount = $7,
			balance_amount = $8,
			fee_amount = $9,
			description = $10,
			last_updated_at = $11,
			last_updated_by = $12
		WHERE transaction_id = $1 AND deleted_at IS NULL;`
	tag, err := tx.Exec(ctx, updateQuery,
		modelTxn.TransactionID,
		modelTxn.CurrencyID,
		modelTxn.ExchangeRate,
		modelTxn.ClientExchangeRate,
		modelTxn.ReceiverExchangeRate,
		modelTxn.OriginalAmount,
		modelTxn.UsdAmount,
		modelTxn.BalanceAmount,
		modelTxn.FeeAmount,
		modelTxn.Description,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction "+modelTxn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// Items are owned wholesale by the transaction: drop and reinsert.
	if _, err := tx.Exec(ctx, `DELETE FROM transaction_items WHERE transaction_id = $1;`, modelTxn.TransactionID); err != nil {
		return apperrors.NewAppError(500, "failed to clear items for transaction "+modelTxn.TransactionID, err)
	}

	if err := sendItemAndAuditBatch(ctx, tx, items, entries); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves an active transaction with its items.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 AND deleted_at IS NULL;`

	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(
		&m.TransactionID,
		&m.Type,
		&m.Status,
		&m.ClientID,
		&m.ReceiverClientID,
		&m.CurrencyID,
		&m.ExchangeRate,
		&m.ClientExchangeRate,
		&m.ReceiverExchangeRate,
		&m.OriginalAmount,
		&m.UsdAmount,
		&m.BalanceAmount,
		&m.FeeAmount,
		&m.Description,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}

	items, err := r.findItemsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	txn := mapping.ToDomainTransaction(m)
	txn.Items = items
	return &txn, nil
}

// SoftDeleteTransaction marks the transaction cancelled and deleted, keeping
// the row for audit. Only active rows match; deleting twice is ErrNotFound.
func (r *PgxTransactionRepository) SoftDeleteTransaction(ctx context.Context, transactionID string, status domain.TransactionStatus, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND deleted_at IS NULL;`
	tag, err := r.Pool.Exec(ctx, query, transactionID, string(status), deletedAt, deletedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to soft-delete transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// HardDeleteTransaction removes a transaction with its items and audit
// entries outright. Only used to unwind a create whose balance application
// failed; deleted rows never reached a caller.
func (r *PgxTransactionRepository) HardDeleteTransaction(ctx context.Context, transactionID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_items WHERE transaction_id = $1;`, transactionID); err != nil {
		return apperrors.NewAppError(500, "failed to delete items for transaction "+transactionID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transaction_audit_log WHERE transaction_id = $1;`, transactionID); err != nil {
		return apperrors.NewAppError(500, "failed to delete audit entries for transaction "+transactionID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID); err != nil {
		return apperrors.NewAppError(500, "failed to delete transaction "+transactionID, err)
	}

	return r.Commit(ctx, tx)
}

// ListTransactionsByClient retrieves a paginated list of the client's active
// transactions using token-based pagination, newest first. Transfers show up
// on both the sender's and the receiver's side.
func (r *PgxTransactionRepository) ListTransactionsByClient(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether there is a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (client_id = $1 OR receiver_client_id = $1) AND deleted_at IS NULL`
	// Ordering must be stable: created_at DESC with transaction_id as tie-breaker.
	orderByClause := `ORDER BY created_at DESC, transaction_id DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{clientID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for client "+clientID, err)
	}
	defer rows.Close()

	fetched := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		var m models.Transaction
		err := rows.Scan(
			&m.TransactionID,
			&m.Type,
			&m.Status,
			&m.ClientID,
			&m.ReceiverClientID,
			&m.CurrencyID,
			&m.ExchangeRate,
			&m.ClientExchangeRate,
			&m.ReceiverExchangeRate,
			&m.OriginalAmount,
			&m.UsdAmount,
			&m.BalanceAmount,
			&m.FeeAmount,
			&m.Description,
			&m.DeletedAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for client "+clientID, err)
		}
		fetched = append(fetched, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for client "+clientID, err)
	}

	var nextTokenVal *string
	results := fetched
	if len(fetched) > limit {
		// The token points at the last item included in this page; the next
		// query starts strictly after it.
		last := fetched[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
		nextTokenVal = &token
		results = fetched[:limit]
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}

// findItemsByTransactionID loads the items of one transaction in insertion
// order.
func (r *PgxTransactionRepository) findItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	query := `
		SELECT item_id, transaction_id, product_id, quantity, unit_price, total_price,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM transaction_items
		WHERE transaction_id = $1
		ORDER BY created_at ASC, item_id ASC;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for transaction "+transactionID, err)
	}
	defer rows.Close()

	items := make([]models.TransactionItem, 0)
	for rows.Next() {
		var m models.TransactionItem
		err := rows.Scan(
			&m.ItemID,
			&m.TransactionID,
			&m.ProductID,
			&m.Quantity,
			&m.UnitPrice,
			&m.TotalPrice,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row for transaction "+transactionID, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows for transaction "+transactionID, err)
	}

	return mapping.ToDomainTransactionItemSlice(items), nil
}

// sendItemAndAuditBatch queues the item and audit entry inserts on one batch
// and flushes it within the caller's DB transaction.
func sendItemAndAuditBatch(ctx context.Context, tx pgx.Tx, items []domain.TransactionItem, entries []domain.TransactionAuditEntry) error {
	if len(items) == 0 && len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		m := mapping.ToModelTransactionItem(item)
		batch.Queue(insertItemQuery,
			m.ItemID, m.TransactionID, m.ProductID, m.Quantity, m.UnitPrice, m.TotalPrice,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
	for _, entry := range entries {
		batch.Queue(insertAuditEntryQuery,
			entry.EntryID, entry.TransactionID, entry.Note, entry.CreatedAt, entry.CreatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert transaction child rows", err)
		}
	}
	return nil
}
