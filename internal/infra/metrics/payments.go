package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		paymentCallbacksTotal,
		paymentAddressesTotal,
		tokensCreditedTotal,
		subscriptionsActivatedTotal,
		subscriptionsExpiredTotal,
	)
}

var (
	paymentCallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Gateway callbacks by outcome (completed/duplicate/rejected/unauthorized/malformed/upstream_error/failed).",
		},
		[]string{"outcome"},
	)

	paymentAddressesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_addresses_total",
			Help: "Deposit addresses issued, labeled by payment purpose.",
		},
		[]string{"purpose"},
	)

	tokensCreditedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tokens_credited_total",
			Help: "Total platform tokens credited by confirmed top-ups.",
		},
	)

	subscriptionsActivatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_activated_total",
			Help: "Profile subscriptions activated or renewed by a confirmed payment, by tier.",
		},
		[]string{"tier"},
	)

	subscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Profile subscriptions settled as expired by the periodic sweep.",
		},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncCallback(outcome string) {
	paymentCallbacksTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncAddressIssued(purpose string) {
	paymentAddressesTotal.WithLabelValues(norm(purpose)).Inc()
}

func AddTokensCredited(tokens int64) {
	tokensCreditedTotal.Add(float64(tokens))
}

func IncSubscriptionActivated(tier string) {
	subscriptionsActivatedTotal.WithLabelValues(norm(tier)).Inc()
}

func AddSubscriptionsExpired(n int64) {
	subscriptionsExpiredTotal.Add(float64(n))
}
