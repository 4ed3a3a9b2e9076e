package web

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	"social-platform-backend/internal/domain/ports/adapter"
	"social-platform-backend/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

type memUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{store: make(map[string]*model.User)} }

func (m *memUserRepo) Save(_ context.Context, _ repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *memUserRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByUsername(_ context.Context, _ repository.Tx, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) SetVerified(_ context.Context, _ repository.Tx, id string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Verified = verified
	return nil
}

func (m *memUserRepo) IncrementTokenBalance(_ context.Context, _ repository.Tx, id string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.TokenBalance += delta
	return nil
}

func (m *memUserRepo) balance(id string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store[id].TokenBalance
}

type memPlanRepo struct {
	mu    sync.Mutex
	store map[string]*model.CreatorPlan
}

func newMemPlanRepo() *memPlanRepo { return &memPlanRepo{store: make(map[string]*model.CreatorPlan)} }

func (m *memPlanRepo) Upsert(_ context.Context, _ repository.Tx, plan *model.CreatorPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	cp.Tiers = make(map[model.PlanTier]model.TierConfig, len(plan.Tiers))
	for k, v := range plan.Tiers {
		cp.Tiers[k] = v
	}
	m.store[plan.OwnerID] = &cp
	return nil
}

func (m *memPlanRepo) FindByOwner(_ context.Context, _ repository.Tx, ownerID string) (*model.CreatorPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type memSubRepo struct {
	mu    sync.Mutex
	store map[string]*model.ProfileSubscription
}

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{store: make(map[string]*model.ProfileSubscription)}
}

func subKey(userID, ownerID string) string { return userID + "/" + ownerID }

func (m *memSubRepo) FindOne(_ context.Context, _ repository.Tx, userID, ownerID string) (*model.ProfileSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[subKey(userID, ownerID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubRepo) Upsert(_ context.Context, _ repository.Tx, sub *model.ProfileSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.store[subKey(sub.UserID, sub.OwnerID)] = &cp
	return nil
}

func (m *memSubRepo) ListByUser(_ context.Context, _ repository.Tx, userID string) ([]*model.ProfileSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ProfileSubscription
	for _, s := range m.store {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSubRepo) ListByOwner(_ context.Context, _ repository.Tx, ownerID string) ([]*model.ProfileSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ProfileSubscription
	for _, s := range m.store {
		if s.OwnerID == ownerID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSubRepo) ExpireOverdue(_ context.Context, _ repository.Tx, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.store {
		if s.Status == model.SubscriptionStatusActive && now.After(s.EndDate) {
			s.Status = model.SubscriptionStatusExpired
			s.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

type memLedgerRepo struct {
	mu    sync.Mutex
	store map[string]*model.Transaction
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{store: make(map[string]*model.Transaction)}
}

func (m *memLedgerRepo) FindByTransactionID(_ context.Context, _ repository.Tx, transactionID string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[transactionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memLedgerRepo) InsertUnique(_ context.Context, _ repository.Tx, t *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.store[t.TransactionID]; exists {
		return domain.ErrDuplicateTransaction
	}
	cp := *t
	m.store[t.TransactionID] = &cp
	return nil
}

func (m *memLedgerRepo) ListByUser(_ context.Context, _ repository.Tx, userID string) ([]*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Transaction
	for _, t := range m.store {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memPostRepo struct {
	mu        sync.Mutex
	store     map[string]*model.Post
	reactions map[string]bool // postID/userID/kind
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{store: make(map[string]*model.Post), reactions: make(map[string]bool)}
}

func (m *memPostRepo) Save(_ context.Context, _ repository.Tx, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPostRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPostRepo) Delete(_ context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memPostRepo) List(_ context.Context, _ repository.Tx, _, _ int) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Post
	for _, p := range m.store {
		if !p.IsPrivate {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPostRepo) ListByPoster(_ context.Context, _ repository.Tx, posterID string, includePrivate bool) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Post
	for _, p := range m.store {
		if p.PosterID == posterID && (includePrivate || !p.IsPrivate) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPostRepo) React(_ context.Context, _ repository.Tx, postID, userID string, kind model.ReactionKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := postID + "/" + userID + "/" + string(kind)
	if m.reactions[key] {
		return domain.ErrAlreadyExists
	}
	p, ok := m.store[postID]
	if !ok {
		return domain.ErrNotFound
	}
	m.reactions[key] = true
	if kind == model.ReactionLike {
		p.LikeCount++
	} else {
		p.DislikeCount++
	}
	return nil
}

func (m *memPostRepo) Unreact(_ context.Context, _ repository.Tx, postID, userID string, kind model.ReactionKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := postID + "/" + userID + "/" + string(kind)
	if !m.reactions[key] {
		return domain.ErrNotFound
	}
	delete(m.reactions, key)
	if p, ok := m.store[postID]; ok {
		if kind == model.ReactionLike {
			p.LikeCount--
		} else {
			p.DislikeCount--
		}
	}
	return nil
}

func (m *memPostRepo) ListReactedBy(_ context.Context, _ repository.Tx, userID string, kind model.ReactionKind) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Post
	for id, p := range m.store {
		if m.reactions[id+"/"+userID+"/"+string(kind)] {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memFollowRepo struct {
	mu    sync.Mutex
	edges map[[2]string]bool
}

func newMemFollowRepo() *memFollowRepo { return &memFollowRepo{edges: make(map[[2]string]bool)} }

func (m *memFollowRepo) Follow(_ context.Context, _ repository.Tx, followerID, followedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{followerID, followedID}
	if m.edges[key] {
		return domain.ErrAlreadyExists
	}
	m.edges[key] = true
	return nil
}

func (m *memFollowRepo) Unfollow(_ context.Context, _ repository.Tx, followerID, followedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{followerID, followedID}
	if !m.edges[key] {
		return domain.ErrNotFound
	}
	delete(m.edges, key)
	return nil
}

func (m *memFollowRepo) ListFollowers(_ context.Context, _ repository.Tx, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for edge := range m.edges {
		if edge[1] == userID {
			out = append(out, edge[0])
		}
	}
	return out, nil
}

func (m *memFollowRepo) ListFollowing(_ context.Context, _ repository.Tx, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for edge := range m.edges {
		if edge[0] == userID {
			out = append(out, edge[1])
		}
	}
	return out, nil
}

type mockGateway struct {
	address string
	rate    float64
}

func (g *mockGateway) Name() string { return "mock" }

func (g *mockGateway) IssueAddress(_ context.Context, _ adapter.AddressRequest) (string, error) {
	return g.address, nil
}

func (g *mockGateway) GetConversionRate(_ context.Context, _, _ string) (float64, error) {
	return g.rate, nil
}

func (g *mockGateway) GetFeeEstimate(_ context.Context, _ string) (float64, error) {
	return 0.0001, nil
}

type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

type mockCooldown struct {
	allow bool
}

func (c *mockCooldown) Allow(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	return c.allow, nil
}
