package model

import (
	"time"

	"social-platform-backend/internal/domain"
)

// MinTierAmount is the smallest price (in USDT) a creator may set on any tier.
const MinTierAmount = 10

// TierConfig is the price and duration a creator configured for one tier.
type TierConfig struct {
	Amount float64 // price in the settlement coin (USDT)
	Days   int     // subscription window length
}

func (c TierConfig) IsZero() bool { return c.Amount == 0 && c.Days == 0 }

// CreatorPlan holds the per-tier subscription pricing a profile owner offers.
// Tiers the owner never configured stay zero-valued and are treated as absent.
type CreatorPlan struct {
	OwnerID   string // UUID of the profile owner
	Tiers     map[PlanTier]TierConfig
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCreatorPlan(ownerID string) (*CreatorPlan, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &CreatorPlan{
		OwnerID:   ownerID,
		Tiers:     make(map[PlanTier]TierConfig),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetTier validates and installs one tier's config.
func (p *CreatorPlan) SetTier(tier PlanTier, cfg TierConfig) error {
	if !ValidTier(tier) {
		return domain.ErrInvalidArgument
	}
	if cfg.Amount < MinTierAmount || cfg.Days <= 0 {
		return domain.ErrInvalidArgument
	}
	if p.Tiers == nil {
		p.Tiers = make(map[PlanTier]TierConfig)
	}
	p.Tiers[tier] = cfg
	p.UpdatedAt = time.Now()
	return nil
}

// Tier returns the config for a tier, or ErrNoSuchPlan when the owner never
// configured it.
func (p *CreatorPlan) Tier(tier PlanTier) (TierConfig, error) {
	cfg, ok := p.Tiers[tier]
	if !ok || cfg.IsZero() {
		return TierConfig{}, domain.ErrNoSuchPlan
	}
	return cfg, nil
}

func (p *CreatorPlan) IsZero() bool { return p == nil || p.OwnerID == "" }
