package model

import (
	"time"

	"social-platform-backend/internal/domain"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusFailed    TransactionStatus = "Failed"
)

// Transaction is one row of the append-only payment ledger. TransactionID is
// the gateway's inbound transaction hash and the idempotency key: the unique
// constraint on it is what makes duplicate callback delivery safe. A row is
// written exactly once, after its effect applied, and never updated.
type Transaction struct {
	ID            string // ULID, internal row id
	TransactionID string // gateway txid_in, unique
	UserID        string
	AddressIn     string
	CoinType      string
	Type          string // the intent purpose: VERIFICATION, TOPUP or a tier
	AmountSent    float64
	PayoutTxID    string // gateway txid_out
	Fee           float64
	OccurredAt    time.Time
	Status        TransactionStatus
}

func NewTransaction(id, txID, userID, addressIn, coin, purpose string, amount, fee float64, payoutTxID string, now time.Time) (*Transaction, error) {
	if id == "" || txID == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Transaction{
		ID:            id,
		TransactionID: txID,
		UserID:        userID,
		AddressIn:     addressIn,
		CoinType:      coin,
		Type:          purpose,
		AmountSent:    amount,
		PayoutTxID:    payoutTxID,
		Fee:           fee,
		OccurredAt:    now,
		Status:        TransactionStatusCompleted,
	}, nil
}
