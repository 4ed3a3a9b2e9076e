package model

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"social-platform-backend/internal/domain"
)

// Purpose identifies what a payment is for. Purposes double as the tag
// embedded in the gateway correlation token, so the string values are part of
// the wire contract and must not change.
type Purpose string

const (
	PurposeVerification Purpose = "VERIFICATION"
	PurposeTopup        Purpose = "TOPUP"
)

// PlanTier is both a plan level and the purpose tag of a subscription payment.
type PlanTier string

const (
	TierBasic    PlanTier = "basic"
	TierPremium  PlanTier = "premium"
	TierUltimate PlanTier = "ultimate"
)

func ValidTier(t PlanTier) bool {
	switch t {
	case TierBasic, TierPremium, TierUltimate:
		return true
	}
	return false
}

// PaymentIntent correlates a gateway deposit address with the domain effect to
// apply once the payment confirms. It is never persisted locally; the whole
// intent travels inside the gateway's opaque correlation token.
type PaymentIntent struct {
	Purpose Purpose
	Tier    PlanTier // set only for subscription intents
	UserID  string
	OwnerID string // profile being subscribed to; set only for subscription intents
}

func (i PaymentIntent) IsSubscription() bool { return i.Tier != "" }

// NewAccountIntent builds a verification or top-up intent.
func NewAccountIntent(userID string, purpose Purpose) (PaymentIntent, error) {
	if purpose != PurposeVerification && purpose != PurposeTopup {
		return PaymentIntent{}, domain.ErrInvalidArgument
	}
	if _, err := uuid.Parse(userID); err != nil {
		return PaymentIntent{}, domain.ErrInvalidArgument
	}
	return PaymentIntent{Purpose: purpose, UserID: userID}, nil
}

// NewSubscriptionIntent builds an intent for subscribing userID to ownerID's
// profile at the given tier. Self-subscription is rejected up front so no
// address is ever issued for it.
func NewSubscriptionIntent(userID, ownerID string, tier PlanTier) (PaymentIntent, error) {
	if !ValidTier(tier) {
		return PaymentIntent{}, domain.ErrInvalidArgument
	}
	if _, err := uuid.Parse(userID); err != nil {
		return PaymentIntent{}, domain.ErrInvalidArgument
	}
	if _, err := uuid.Parse(ownerID); err != nil {
		return PaymentIntent{}, domain.ErrInvalidArgument
	}
	if userID == ownerID {
		return PaymentIntent{}, domain.ErrSelfSubscription
	}
	return PaymentIntent{Purpose: Purpose(tier), Tier: tier, UserID: userID, OwnerID: ownerID}, nil
}

// Encode produces the correlation token handed to the gateway.
// Account intents encode as "<userId>@<purpose>", subscription intents as
// "<tier>@<userId>@<ownerId>". The gateway echoes the token back fragmented
// across numerically keyed callback query parameters.
func (i PaymentIntent) Encode() string {
	if i.IsSubscription() {
		return string(i.Tier) + "@" + i.UserID + "@" + i.OwnerID
	}
	return i.UserID + "@" + string(i.Purpose)
}

// reassembleToken rebuilds the original correlation token from callback query
// parameters. The gateway splits the token across parameters keyed "0","1",...;
// the pieces are concatenated in ascending numeric key order. This is an
// external protocol quirk and must be reproduced exactly.
func reassembleToken(q url.Values) string {
	keys := make([]int, 0, len(q))
	for k := range q {
		if n, err := strconv.Atoi(k); err == nil {
			keys = append(keys, n)
		}
	}
	sort.Ints(keys)
	var b strings.Builder
	for _, n := range keys {
		b.WriteString(q.Get(strconv.Itoa(n)))
	}
	return b.String()
}

// DecodeAccountIntent parses a verification/top-up token out of callback query
// parameters. The token must split into exactly two parts with a valid user id
// and a known purpose; anything else is ErrMalformedIntent.
func DecodeAccountIntent(q url.Values) (PaymentIntent, error) {
	parts := strings.Split(reassembleToken(q), "@")
	if len(parts) != 2 {
		return PaymentIntent{}, domain.ErrMalformedIntent
	}
	userID, purpose := parts[0], Purpose(parts[1])
	if purpose != PurposeVerification && purpose != PurposeTopup {
		return PaymentIntent{}, domain.ErrMalformedIntent
	}
	if _, err := uuid.Parse(userID); err != nil {
		return PaymentIntent{}, domain.ErrMalformedIntent
	}
	return PaymentIntent{Purpose: purpose, UserID: userID}, nil
}

// DecodeSubscriptionIntent parses a subscription token out of callback query
// parameters: exactly three parts, a known tier, two valid distinct user ids.
func DecodeSubscriptionIntent(q url.Values) (PaymentIntent, error) {
	parts := strings.Split(reassembleToken(q), "@")
	if len(parts) != 3 {
		return PaymentIntent{}, domain.ErrMalformedIntent
	}
	tier, userID, ownerID := PlanTier(parts[0]), parts[1], parts[2]
	if !ValidTier(tier) {
		return PaymentIntent{}, domain.ErrMalformedIntent
	}
	if _, err := uuid.Parse(userID); err != nil {
		return PaymentIntent{}, domain.ErrMalformedIntent
	}
	if _, err := uuid.Parse(ownerID); err != nil {
		return PaymentIntent{}, domain.ErrMalformedIntent
	}
	if userID == ownerID {
		return PaymentIntent{}, domain.ErrSelfSubscription
	}
	return PaymentIntent{Purpose: Purpose(tier), Tier: tier, UserID: userID, OwnerID: ownerID}, nil
}
