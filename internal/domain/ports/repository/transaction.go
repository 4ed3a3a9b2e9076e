package repository

import (
	"context"

	"social-platform-backend/internal/domain/model"
)

// TransactionRepository is the port for the append-only payment ledger.
type TransactionRepository interface {
	// FindByTransactionID looks up a ledger row by the gateway's inbound
	// transaction id. Returns domain.ErrNotFound when absent.
	FindByTransactionID(ctx context.Context, tx Tx, transactionID string) (*model.Transaction, error)
	// InsertUnique appends a row and returns domain.ErrDuplicateTransaction
	// when a row with the same gateway transaction id already exists. The
	// insert is the authoritative idempotency point for concurrent callback
	// delivery; FindByTransactionID is only a fast path.
	InsertUnique(ctx context.Context, tx Tx, t *model.Transaction) error
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Transaction, error)
}
