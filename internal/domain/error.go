package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// Payment core
	ErrUnauthorized         = errors.New("signature verification failed")
	ErrMalformedIntent      = errors.New("malformed payment intent token")
	ErrDuplicateTransaction = errors.New("transaction already processed")
	ErrInsufficientPayment  = errors.New("paid amount below required minimum")
	ErrUpstreamFailure      = errors.New("payment gateway request failed")

	// Subscriptions
	ErrSelfSubscription = errors.New("a user cannot subscribe to themselves")
	ErrNoSuchPlan       = errors.New("no such subscription plan configured")
	ErrNoSubscription   = errors.New("no subscription for this profile")

	// Posts
	ErrPostCooldown = errors.New("post creation cooldown in effect")

	// Storage plumbing
	ErrInvalidExecContext = errors.New("invalid database execution context")
	ErrOperationFailed    = errors.New("database operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
