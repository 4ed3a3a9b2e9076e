//go:build integration

package postgres

import (
	"context"
	"testing"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"

	"github.com/google/uuid"
)

func TestPlanRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewPlanRepo(testPool)
	userRepo := NewUserRepo(testPool)

	creator, _ := model.NewUser(uuid.NewString(), "creator2", "creator2@example.com")

	setup := func(t *testing.T) {
		cleanup(t)
		if err := userRepo.Save(ctx, nil, creator); err != nil {
			t.Fatalf("failed to save user: %v", err)
		}
	}

	t.Run("upsert and find by owner", func(t *testing.T) {
		setup(t)
		plan, _ := model.NewCreatorPlan(creator.ID)
		plan.SetTier(model.TierBasic, model.TierConfig{Amount: 10, Days: 7})
		plan.SetTier(model.TierPremium, model.TierConfig{Amount: 25, Days: 30})
		if err := repo.Upsert(ctx, nil, plan); err != nil {
			t.Fatalf("Upsert: %v", err)
		}

		found, err := repo.FindByOwner(ctx, nil, creator.ID)
		if err != nil {
			t.Fatalf("FindByOwner: %v", err)
		}
		if len(found.Tiers) != 2 {
			t.Errorf("tiers = %d, want 2", len(found.Tiers))
		}
		if cfg, err := found.Tier(model.TierPremium); err != nil || cfg.Amount != 25 {
			t.Errorf("premium tier = %+v, %v", cfg, err)
		}
	})

	t.Run("upsert overwrites a tier price", func(t *testing.T) {
		setup(t)
		plan, _ := model.NewCreatorPlan(creator.ID)
		plan.SetTier(model.TierBasic, model.TierConfig{Amount: 10, Days: 7})
		if err := repo.Upsert(ctx, nil, plan); err != nil {
			t.Fatalf("first upsert: %v", err)
		}
		plan.SetTier(model.TierBasic, model.TierConfig{Amount: 15, Days: 14})
		if err := repo.Upsert(ctx, nil, plan); err != nil {
			t.Fatalf("second upsert: %v", err)
		}

		found, _ := repo.FindByOwner(ctx, nil, creator.ID)
		if cfg, _ := found.Tier(model.TierBasic); cfg.Amount != 15 || cfg.Days != 14 {
			t.Errorf("basic tier = %+v", cfg)
		}
	})

	t.Run("missing owner", func(t *testing.T) {
		setup(t)
		if _, err := repo.FindByOwner(ctx, nil, uuid.NewString()); err != domain.ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
