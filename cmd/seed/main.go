// File: cmd/seed/main.go
//
// Seeds a development database with a couple of accounts and a creator plan
// so the payment flow can be exercised end to end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"social-platform-backend/internal/config"
	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	pg "social-platform-backend/internal/infra/db/postgres"
	"social-platform-backend/internal/infra/logging"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	userRepo := pg.NewUserRepo(pool)
	planRepo := pg.NewPlanRepo(pool)

	seedUsers := []struct {
		ID       string
		Username string
	}{
		{"7c9e6679-7425-40de-944b-e07fc1f90ae7", "devalice"},
		{"550e8400-e29b-41d4-a716-446655440000", "devcreator"},
	}
	for _, su := range seedUsers {
		if _, err := userRepo.FindByID(ctx, nil, su.ID); err == nil {
			fmt.Printf("user %s already present\n", su.Username)
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			logger.Fatal().Err(err).Msg("user lookup failed")
		}
		u, err := model.NewUser(su.ID, su.Username, su.Username+"@example.com")
		if err != nil {
			logger.Fatal().Err(err).Msg("build user")
		}
		if err := userRepo.Save(ctx, nil, u); err != nil {
			logger.Fatal().Err(err).Msg("save user")
		}
		fmt.Printf("seeded user %s (%s)\n", su.Username, su.ID)
	}

	// A plan on the creator account so subscription payments have a target.
	ownerID := seedUsers[1].ID
	plan, err := model.NewCreatorPlan(ownerID)
	if err != nil {
		logger.Fatal().Err(err).Msg("build plan")
	}
	tiers := map[model.PlanTier]model.TierConfig{
		model.TierBasic:    {Amount: 10, Days: 30},
		model.TierPremium:  {Amount: 25, Days: 30},
		model.TierUltimate: {Amount: 60, Days: 90},
	}
	for tier, tc := range tiers {
		if err := plan.SetTier(tier, tc); err != nil {
			logger.Fatal().Err(err).Msg("set tier")
		}
	}
	if err := planRepo.Upsert(ctx, nil, plan); err != nil {
		logger.Fatal().Err(err).Msg("upsert plan")
	}
	fmt.Printf("seeded %d plan tiers for %s\n", len(tiers), seedUsers[1].Username)
}
