//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

func TestTransactionRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewTransactionRepo(testPool)
	userRepo := NewUserRepo(testPool)

	user, _ := model.NewUser(uuid.NewString(), "payer001", "payer001@example.com")

	setup := func(t *testing.T) {
		cleanup(t)
		if err := userRepo.Save(ctx, nil, user); err != nil {
			t.Fatalf("failed to save user: %v", err)
		}
	}

	newTxn := func(t *testing.T, gatewayTxID string) *model.Transaction {
		t.Helper()
		rec, err := model.NewTransaction(ulid.Make().String(), gatewayTxID, user.ID, "addr1", "ltc", "TOPUP", 2.5, 0.0001, "out-"+gatewayTxID, time.Now())
		if err != nil {
			t.Fatalf("NewTransaction: %v", err)
		}
		return rec
	}

	t.Run("insert and find by gateway id", func(t *testing.T) {
		setup(t)
		rec := newTxn(t, "tx-int-1")
		if err := repo.InsertUnique(ctx, nil, rec); err != nil {
			t.Fatalf("InsertUnique: %v", err)
		}

		found, err := repo.FindByTransactionID(ctx, nil, "tx-int-1")
		if err != nil {
			t.Fatalf("FindByTransactionID: %v", err)
		}
		if found.UserID != user.ID || found.Type != "TOPUP" || found.Status != model.TransactionStatusCompleted {
			t.Errorf("found = %+v", found)
		}
		if _, err := repo.FindByTransactionID(ctx, nil, "tx-missing"); err != domain.ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate gateway id is rejected", func(t *testing.T) {
		setup(t)
		if err := repo.InsertUnique(ctx, nil, newTxn(t, "tx-int-2")); err != nil {
			t.Fatalf("first insert: %v", err)
		}
		if err := repo.InsertUnique(ctx, nil, newTxn(t, "tx-int-2")); err != domain.ErrDuplicateTransaction {
			t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
		}
	})

	t.Run("concurrent inserts of the same gateway id admit exactly one", func(t *testing.T) {
		setup(t)

		const workers = 8
		errs := make([]error, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = repo.InsertUnique(ctx, nil, newTxn(t, "tx-int-race"))
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else if err != domain.ErrDuplicateTransaction {
				t.Errorf("unexpected error: %v", err)
			}
		}
		if succeeded != 1 {
			t.Errorf("successful inserts = %d, want 1", succeeded)
		}
	})

	t.Run("list by user", func(t *testing.T) {
		setup(t)
		if err := repo.InsertUnique(ctx, nil, newTxn(t, "tx-int-3")); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if err := repo.InsertUnique(ctx, nil, newTxn(t, "tx-int-4")); err != nil {
			t.Fatalf("insert: %v", err)
		}
		list, err := repo.ListByUser(ctx, nil, user.ID)
		if err != nil || len(list) != 2 {
			t.Errorf("ListByUser = %d rows, %v", len(list), err)
		}
	})
}
