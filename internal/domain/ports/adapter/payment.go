package adapter

import "context"

// AddressRequest asks the gateway for a one-time deposit address.
type AddressRequest struct {
	Coin          string // settlement coin ticker, e.g. "ltc" or "bep20_usdt"
	CallbackURL   string // where the gateway delivers confirmations
	Token         string // opaque correlation token echoed back on callback
	RequestID     string // fresh idempotent request id
	Confirmations int    // blockchain confirmations before callback
}

// PaymentGateway is the hex port for the external crypto-payment provider.
// The provider owns address generation, chain monitoring and conversion; this
// service only issues intents and consumes signed callbacks.
type PaymentGateway interface {
	Name() string

	// IssueAddress registers a payment intent and returns the deposit address.
	IssueAddress(ctx context.Context, req AddressRequest) (address string, err error)

	// GetConversionRate returns how many units of coin equal one unit of the
	// fiat-pegged currency (e.g. LTC per 1 USDT).
	GetConversionRate(ctx context.Context, coin, currency string) (float64, error)

	// GetFeeEstimate returns the estimated network fee for one output, in coin
	// units.
	GetFeeEstimate(ctx context.Context, coin string) (float64, error)
}
