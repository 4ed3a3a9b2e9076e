package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	"social-platform-backend/internal/domain/ports/repository"
)

var _ repository.TransactionRepository = (*transactionRepo)(nil)

// transactionRepo is the append-only payment ledger. Rows are inserted once
// and never updated; the unique index on transaction_id carries the
// idempotency guarantee for duplicate callback delivery.
type transactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *transactionRepo {
	return &transactionRepo{pool: pool}
}

const txnColumns = `id, transaction_id, user_id, address_in, coin_type, type, amount_sent, payout_tx_id, fee, occurred_at, status`

func (r *transactionRepo) InsertUnique(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	const q = `
INSERT INTO transactions (
  id, transaction_id, user_id, address_in, coin_type, type, amount_sent, payout_tx_id, fee, occurred_at, status
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11);`

	_, err := execSQL(ctx, r.pool, tx, q, t.ID, t.TransactionID, t.UserID, t.AddressIn, t.CoinType, t.Type, t.AmountSent, t.PayoutTxID, t.Fee, t.OccurredAt, string(t.Status))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTransaction
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *transactionRepo) FindByTransactionID(ctx context.Context, tx repository.Tx, transactionID string) (*model.Transaction, error) {
	const q = `SELECT ` + txnColumns + ` FROM transactions WHERE transaction_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, transactionID)
	if err != nil {
		return nil, err
	}
	return scanTransaction(row)
}

func (r *transactionRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Transaction, error) {
	const q = `SELECT ` + txnColumns + ` FROM transactions WHERE user_id=$1 ORDER BY occurred_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	var t model.Transaction
	var status string
	if err := row.Scan(&t.ID, &t.TransactionID, &t.UserID, &t.AddressIn, &t.CoinType, &t.Type, &t.AmountSent, &t.PayoutTxID, &t.Fee, &t.OccurredAt, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	t.Status = model.TransactionStatus(status)
	return &t, nil
}
