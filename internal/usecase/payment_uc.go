// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"social-platform-backend/internal/config"
	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	"social-platform-backend/internal/domain/ports/adapter"
	"social-platform-backend/internal/domain/ports/repository"
	"social-platform-backend/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// SignatureVerifier checks the gateway's signature over the reconstructed
// callback URL.
type SignatureVerifier interface {
	Verify(payload, signature []byte) bool
}

// TopupQuote is what the client needs to pay a top-up or verification fee.
type TopupQuote struct {
	Address string
	Amount  string // quoted in the settlement coin, 8 decimal places
	Coin    string
}

// SubscriptionQuote is what the client needs to pay for a profile subscription.
type SubscriptionQuote struct {
	Address string
	Tier    model.PlanTier
	Plan    model.TierConfig
	Coin    string
}

// CallbackRequest is one inbound gateway confirmation. TrustedURL must be
// reconstructed from configuration plus the request's own URI, never from
// client-supplied headers, or signature verification is meaningless.
type CallbackRequest struct {
	TrustedURL string
	Signature  []byte
	Query      url.Values
}

type PaymentUseCase interface {
	// RequestTopupAddress issues a deposit address for a verification or
	// top-up payment and quotes the expected amount.
	RequestTopupAddress(ctx context.Context, userID string, purpose model.Purpose) (*TopupQuote, error)
	// RequestSubscriptionAddress issues a deposit address for subscribing
	// userID to ownerID's profile at the given tier.
	RequestSubscriptionAddress(ctx context.Context, userID, ownerID string, tier model.PlanTier) (*SubscriptionQuote, error)
	// ConfirmAccountCallback processes a verification/top-up confirmation.
	ConfirmAccountCallback(ctx context.Context, cb CallbackRequest) error
	// ConfirmSubscriptionCallback processes a subscription confirmation.
	ConfirmSubscriptionCallback(ctx context.Context, cb CallbackRequest) error
}

type paymentUC struct {
	users    repository.UserRepository
	plans    repository.CreatorPlanRepository
	subs     repository.SubscriptionRepository
	ledger   repository.TransactionRepository
	gateway  adapter.PaymentGateway
	verifier SignatureVerifier
	tm       repository.TransactionManager
	cfg      config.PaymentConfig
	log      *zerolog.Logger
}

func NewPaymentUseCase(
	users repository.UserRepository,
	plans repository.CreatorPlanRepository,
	subs repository.SubscriptionRepository,
	ledger repository.TransactionRepository,
	gateway adapter.PaymentGateway,
	verifier SignatureVerifier,
	tm repository.TransactionManager,
	cfg config.PaymentConfig,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		users:    users,
		plans:    plans,
		subs:     subs,
		ledger:   ledger,
		gateway:  gateway,
		verifier: verifier,
		tm:       tm,
		cfg:      cfg,
		log:      logger,
	}
}

func (u *paymentUC) RequestTopupAddress(ctx context.Context, userID string, purpose model.Purpose) (*TopupQuote, error) {
	intent, err := model.NewAccountIntent(userID, purpose)
	if err != nil {
		return nil, err
	}
	if _, err := u.users.FindByID(ctx, nil, userID); err != nil {
		return nil, err
	}

	// Quote the coin amount worth one unit of the settlement currency,
	// inflated by the configured margin to absorb volatility between quote
	// and payment. If the rate feed is down, fall back to the fixed default.
	amount := u.cfg.DefaultTopup
	rate, rateErr := u.gateway.GetConversionRate(ctx, u.cfg.TopupCoin, u.cfg.QuoteCurrency)
	if rateErr == nil {
		amount = strconv.FormatFloat(rate*(1+u.cfg.QuoteMargin), 'f', 8, 64)
	} else {
		u.log.Warn().Err(rateErr).Msg("rate feed unavailable, quoting default top-up amount")
	}

	if fee, err := u.gateway.GetFeeEstimate(ctx, u.cfg.TopupCoin); err == nil {
		u.log.Debug().Float64("fee", fee).Str("coin", u.cfg.TopupCoin).Msg("network fee estimate")
	}

	address, err := u.gateway.IssueAddress(ctx, adapter.AddressRequest{
		Coin:          u.cfg.TopupCoin,
		CallbackURL:   u.cfg.CallbackURL,
		Token:         intent.Encode(),
		RequestID:     uuid.NewString(),
		Confirmations: u.cfg.Confirmations,
	})
	if err != nil {
		return nil, err
	}

	metrics.IncAddressIssued(string(purpose))
	u.log.Info().Str("user_id", userID).Str("purpose", string(purpose)).Msg("payment address issued")
	return &TopupQuote{Address: address, Amount: amount, Coin: u.cfg.TopupCoin}, nil
}

func (u *paymentUC) RequestSubscriptionAddress(ctx context.Context, userID, ownerID string, tier model.PlanTier) (*SubscriptionQuote, error) {
	intent, err := model.NewSubscriptionIntent(userID, ownerID, tier)
	if err != nil {
		return nil, err
	}
	if _, err := u.users.FindByID(ctx, nil, userID); err != nil {
		return nil, err
	}

	plan, err := u.plans.FindByOwner(ctx, nil, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoSuchPlan
		}
		return nil, err
	}
	tierCfg, err := plan.Tier(tier)
	if err != nil {
		return nil, err
	}

	address, err := u.gateway.IssueAddress(ctx, adapter.AddressRequest{
		Coin:          u.cfg.SubscriptionCoin,
		CallbackURL:   u.cfg.CallbackURL + "sub", // /callback -> /callbacksub
		Token:         intent.Encode(),
		RequestID:     uuid.NewString(),
		Confirmations: u.cfg.Confirmations,
	})
	if err != nil {
		return nil, err
	}

	metrics.IncAddressIssued(string(tier))
	u.log.Info().Str("user_id", userID).Str("owner_id", ownerID).Str("tier", string(tier)).Msg("subscription payment address issued")
	return &SubscriptionQuote{Address: address, Tier: tier, Plan: tierCfg, Coin: u.cfg.SubscriptionCoin}, nil
}

// callbackFields are the gateway's confirmation parameters.
type callbackFields struct {
	txID      string
	payoutTx  string
	addressIn string
	coin      string
	amount    float64
	fee       float64
}

func parseCallbackFields(q url.Values) (callbackFields, error) {
	f := callbackFields{
		txID:      q.Get("txid_in"),
		payoutTx:  q.Get("txid_out"),
		addressIn: q.Get("address_in"),
		coin:      q.Get("coin"),
	}
	if f.txID == "" {
		return f, fmt.Errorf("%w: missing txid_in", domain.ErrInvalidArgument)
	}
	amount, err := strconv.ParseFloat(q.Get("value_coin"), 64)
	if err != nil || amount <= 0 {
		return f, fmt.Errorf("%w: bad value_coin %q", domain.ErrInvalidArgument, q.Get("value_coin"))
	}
	f.amount = amount
	// fee_coin is informational; tolerate its absence
	f.fee, _ = strconv.ParseFloat(q.Get("fee_coin"), 64)
	return f, nil
}

// gate runs the shared front half of both callback state machines: signature
// check, then field parsing. Both callbacks fail closed on an invalid
// signature; the original inverted check on the subscription path was a bug,
// not a contract. Duplicate detection comes after intent decode so a
// malformed delivery is reported as malformed even when its txid is known.
func (u *paymentUC) gate(cb CallbackRequest) (callbackFields, error) {
	if !u.verifier.Verify([]byte(cb.TrustedURL), cb.Signature) {
		metrics.IncCallback("unauthorized")
		return callbackFields{}, domain.ErrUnauthorized
	}
	fields, err := parseCallbackFields(cb.Query)
	if err != nil {
		metrics.IncCallback("malformed")
		return callbackFields{}, err
	}
	return fields, nil
}

// ensureFresh is the fast-path duplicate lookup. The authoritative check is
// still the unique ledger insert inside the transaction.
func (u *paymentUC) ensureFresh(ctx context.Context, txID string) error {
	if _, err := u.ledger.FindByTransactionID(ctx, nil, txID); err == nil {
		metrics.IncCallback("duplicate")
		return domain.ErrDuplicateTransaction
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (u *paymentUC) ConfirmAccountCallback(ctx context.Context, cb CallbackRequest) error {
	fields, err := u.gate(cb)
	if err != nil {
		return err
	}
	intent, err := model.DecodeAccountIntent(cb.Query)
	if err != nil {
		metrics.IncCallback("malformed")
		return err
	}
	if err := u.ensureFresh(ctx, fields.txID); err != nil {
		return err
	}

	// For top-ups the credited amount depends on the live rate; fetch it
	// before opening the transaction so no network call runs inside it.
	var credit int64
	if intent.Purpose == model.PurposeTopup {
		rate, err := u.gateway.GetConversionRate(ctx, u.cfg.TopupCoin, u.cfg.QuoteCurrency)
		if err != nil {
			metrics.IncCallback("upstream_error")
			return err
		}
		if fields.amount < rate {
			metrics.IncCallback("rejected")
			return fmt.Errorf("%w: %g below minimum %g", domain.ErrInsufficientPayment, fields.amount, rate)
		}
		credit = int64(math.Round(fields.amount / rate * float64(u.cfg.TokenRate)))
	}

	// Effect and ledger append commit together or not at all: a Transaction
	// row must never exist for an effect that did not happen.
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		switch intent.Purpose {
		case model.PurposeVerification:
			if err := u.users.SetVerified(ctx, tx, intent.UserID, true); err != nil {
				return err
			}
		case model.PurposeTopup:
			if err := u.users.IncrementTokenBalance(ctx, tx, intent.UserID, credit); err != nil {
				return err
			}
		}
		return u.appendLedger(ctx, tx, fields, intent)
	})
	if err != nil {
		return u.recordOutcome(err)
	}

	if intent.Purpose == model.PurposeTopup {
		metrics.AddTokensCredited(credit)
		u.log.Info().Str("user_id", intent.UserID).Int64("tokens", credit).Str("txid", fields.txID).Msg("top-up credited")
	} else {
		u.log.Info().Str("user_id", intent.UserID).Str("txid", fields.txID).Msg("account verified")
	}
	metrics.IncCallback("completed")
	return nil
}

func (u *paymentUC) ConfirmSubscriptionCallback(ctx context.Context, cb CallbackRequest) error {
	fields, err := u.gate(cb)
	if err != nil {
		return err
	}
	intent, err := model.DecodeSubscriptionIntent(cb.Query)
	if err != nil {
		metrics.IncCallback("malformed")
		return err
	}
	if err := u.ensureFresh(ctx, fields.txID); err != nil {
		return err
	}

	plan, err := u.plans.FindByOwner(ctx, nil, intent.OwnerID)
	if err != nil {
		metrics.IncCallback("rejected")
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNoSuchPlan
		}
		return err
	}
	tierCfg, err := plan.Tier(intent.Tier)
	if err != nil {
		metrics.IncCallback("rejected")
		return err
	}
	if fields.amount < tierCfg.Amount {
		metrics.IncCallback("rejected")
		return fmt.Errorf("%w: %g below tier price %g", domain.ErrInsufficientPayment, fields.amount, tierCfg.Amount)
	}

	now := time.Now()
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		sub, err := u.subs.FindOne(ctx, tx, intent.UserID, intent.OwnerID)
		switch {
		case err == nil:
			if err := sub.Renew(intent.Tier, tierCfg.Days, now); err != nil {
				return err
			}
		case errors.Is(err, domain.ErrNotFound):
			sub, err = model.NewProfileSubscription(uuid.NewString(), intent.UserID, intent.OwnerID, intent.Tier, tierCfg.Days, now)
			if err != nil {
				return err
			}
		default:
			return err
		}
		if err := u.subs.Upsert(ctx, tx, sub); err != nil {
			return err
		}
		return u.appendLedger(ctx, tx, fields, intent)
	})
	if err != nil {
		return u.recordOutcome(err)
	}

	metrics.IncSubscriptionActivated(string(intent.Tier))
	metrics.IncCallback("completed")
	u.log.Info().Str("user_id", intent.UserID).Str("owner_id", intent.OwnerID).Str("tier", string(intent.Tier)).Str("txid", fields.txID).Msg("subscription activated")
	return nil
}

func (u *paymentUC) appendLedger(ctx context.Context, tx repository.Tx, f callbackFields, intent model.PaymentIntent) error {
	rec, err := model.NewTransaction(ulid.Make().String(), f.txID, intent.UserID, f.addressIn, f.coin, string(intent.Purpose), f.amount, f.fee, f.payoutTx, time.Now())
	if err != nil {
		return err
	}
	return u.ledger.InsertUnique(ctx, tx, rec)
}

// recordOutcome maps a failed confirmation to its metric label. A unique
// violation on the ledger insert is the concurrent-duplicate path and must
// look identical to the fast-path duplicate.
func (u *paymentUC) recordOutcome(err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateTransaction):
		metrics.IncCallback("duplicate")
	case errors.Is(err, domain.ErrNotFound):
		metrics.IncCallback("rejected")
	default:
		metrics.IncCallback("failed")
	}
	return err
}
