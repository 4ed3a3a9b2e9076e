// File: internal/usecase/mocks_test.go
package usecase_test

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

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type memUserRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.User
	saveErr error // simulate save failures
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (m *memUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByUsername(ctx context.Context, tx repository.Tx, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) SetVerified(ctx context.Context, tx repository.Tx, id string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Verified = verified
	return nil
}

func (m *memUserRepo) IncrementTokenBalance(ctx context.Context, tx repository.Tx, id string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.TokenBalance += delta
	return nil
}

// ---------------------------------------------------------------------------
// Creator plans
// ---------------------------------------------------------------------------

type memPlanRepo struct {
	mu    sync.RWMutex
	store map[string]*model.CreatorPlan // by owner id
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{store: make(map[string]*model.CreatorPlan)}
}

func (m *memPlanRepo) Upsert(ctx context.Context, tx repository.Tx, plan *model.CreatorPlan) error {
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

func (m *memPlanRepo) FindByOwner(ctx context.Context, tx repository.Tx, ownerID string) (*model.CreatorPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ---------------------------------------------------------------------------
// Subscriptions
// ---------------------------------------------------------------------------

type memSubRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.ProfileSubscription // key userID+"/"+ownerID
	findErr error                                 // simulate lookup failures
}

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{store: make(map[string]*model.ProfileSubscription)}
}

func subKey(userID, ownerID string) string { return userID + "/" + ownerID }

func (m *memSubRepo) FindOne(ctx context.Context, tx repository.Tx, userID, ownerID string) (*model.ProfileSubscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	s, ok := m.store[subKey(userID, ownerID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubRepo) Upsert(ctx context.Context, tx repository.Tx, sub *model.ProfileSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.store[subKey(sub.UserID, sub.OwnerID)] = &cp
	return nil
}

func (m *memSubRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.ProfileSubscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ProfileSubscription
	for _, s := range m.store {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSubRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID string) ([]*model.ProfileSubscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ProfileSubscription
	for _, s := range m.store {
		if s.OwnerID == ownerID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSubRepo) ExpireOverdue(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
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

func (m *memSubRepo) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// ---------------------------------------------------------------------------
// Transaction ledger
// ---------------------------------------------------------------------------

type memLedgerRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Transaction // by gateway transaction id
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{store: make(map[string]*model.Transaction)}
}

func (m *memLedgerRepo) FindByTransactionID(ctx context.Context, tx repository.Tx, transactionID string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[transactionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// InsertUnique mirrors the database's unique constraint on transaction_id.
func (m *memLedgerRepo) InsertUnique(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.store[t.TransactionID]; exists {
		return domain.ErrDuplicateTransaction
	}
	cp := *t
	m.store[t.TransactionID] = &cp
	return nil
}

func (m *memLedgerRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transaction
	for _, t := range m.store {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memLedgerRepo) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// ---------------------------------------------------------------------------
// Payment gateway
// ---------------------------------------------------------------------------

type mockGateway struct {
	mu            sync.Mutex
	address       string
	rate          float64
	rateErr       error
	fee           float64
	issueErr      error
	issuedReqs    []adapter.AddressRequest
	convertCalled int
}

func (g *mockGateway) Name() string { return "mock" }

func (g *mockGateway) IssueAddress(ctx context.Context, req adapter.AddressRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.issueErr != nil {
		return "", g.issueErr
	}
	g.issuedReqs = append(g.issuedReqs, req)
	return g.address, nil
}

func (g *mockGateway) GetConversionRate(ctx context.Context, coin, currency string) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.convertCalled++
	if g.rateErr != nil {
		return 0, g.rateErr
	}
	return g.rate, nil
}

func (g *mockGateway) GetFeeEstimate(ctx context.Context, coin string) (float64, error) {
	return g.fee, nil
}

// ---------------------------------------------------------------------------
// Signature verifier
// ---------------------------------------------------------------------------

type mockVerifier struct {
	ok bool
}

func (v *mockVerifier) Verify(payload, signature []byte) bool { return v.ok }

// ---------------------------------------------------------------------------
// Transaction manager
// ---------------------------------------------------------------------------

// mockTxManager runs the callback without a real transaction; atomicity
// assertions in tests are made through the repos' observable state.
type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// ---------------------------------------------------------------------------
// Cooldown limiter
// ---------------------------------------------------------------------------

type mockCooldown struct {
	mu      sync.Mutex
	allow   bool
	err     error
	lastKey string
	window  time.Duration
}

func (c *mockCooldown) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastKey = key
	c.window = window
	return c.allow, c.err
}

// ---------------------------------------------------------------------------
// Posts
// ---------------------------------------------------------------------------

type memPostRepo struct {
	mu        sync.RWMutex
	store     map[string]*model.Post
	reactions map[string]model.ReactionKind // postID+"/"+userID+"/"+kind
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{store: make(map[string]*model.Post), reactions: make(map[string]model.ReactionKind)}
}

func (m *memPostRepo) Save(ctx context.Context, tx repository.Tx, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPostRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPostRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memPostRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Post
	for _, p := range m.store {
		if !p.IsPrivate {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPostRepo) ListByPoster(ctx context.Context, tx repository.Tx, posterID string, includePrivate bool) ([]*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Post
	for _, p := range m.store {
		if p.PosterID == posterID && (includePrivate || !p.IsPrivate) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func reactionKey(postID, userID string, kind model.ReactionKind) string {
	return postID + "/" + userID + "/" + string(kind)
}

func (m *memPostRepo) React(ctx context.Context, tx repository.Tx, postID, userID string, kind model.ReactionKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := reactionKey(postID, userID, kind)
	if _, ok := m.reactions[key]; ok {
		return domain.ErrAlreadyExists
	}
	p, ok := m.store[postID]
	if !ok {
		return domain.ErrNotFound
	}
	m.reactions[key] = kind
	if kind == model.ReactionLike {
		p.LikeCount++
	} else {
		p.DislikeCount++
	}
	return nil
}

func (m *memPostRepo) Unreact(ctx context.Context, tx repository.Tx, postID, userID string, kind model.ReactionKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := reactionKey(postID, userID, kind)
	if _, ok := m.reactions[key]; !ok {
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

func (m *memPostRepo) ListReactedBy(ctx context.Context, tx repository.Tx, userID string, kind model.ReactionKind) ([]*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Post
	for key := range m.reactions {
		for id, p := range m.store {
			if key == reactionKey(id, userID, kind) {
				cp := *p
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Follow graph
// ---------------------------------------------------------------------------

type memFollowRepo struct {
	mu    sync.RWMutex
	edges map[string]bool // follower+"/"+followed
}

func newMemFollowRepo() *memFollowRepo {
	return &memFollowRepo{edges: make(map[string]bool)}
}

func (m *memFollowRepo) Follow(ctx context.Context, tx repository.Tx, followerID, followedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := followerID + "/" + followedID
	if m.edges[key] {
		return domain.ErrAlreadyExists
	}
	m.edges[key] = true
	return nil
}

func (m *memFollowRepo) Unfollow(ctx context.Context, tx repository.Tx, followerID, followedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := followerID + "/" + followedID
	if !m.edges[key] {
		return domain.ErrNotFound
	}
	delete(m.edges, key)
	return nil
}

func (m *memFollowRepo) ListFollowers(ctx context.Context, tx repository.Tx, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for key := range m.edges {
		for i := 0; i < len(key); i++ {
			if key[i] == '/' {
				if key[i+1:] == userID {
					out = append(out, key[:i])
				}
				break
			}
		}
	}
	return out, nil
}

func (m *memFollowRepo) ListFollowing(ctx context.Context, tx repository.Tx, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for key := range m.edges {
		for i := 0; i < len(key); i++ {
			if key[i] == '/' {
				if key[:i] == userID {
					out = append(out, key[i+1:])
				}
				break
			}
		}
	}
	return out, nil
}
