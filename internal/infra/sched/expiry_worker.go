package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"social-platform-backend/internal/infra/metrics"
	"social-platform-backend/internal/usecase"
)

// ExpiryWorker periodically settles overdue profile subscriptions. Reads
// already evaluate expiry lazily; the sweep keeps storage and subscriber
// rosters from drifting for pairs nobody looks at.
type ExpiryWorker struct {
	interval time.Duration
	subUC    usecase.SubscriptionUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subUC usecase.SubscriptionUseCase, logger *zerolog.Logger) *ExpiryWorker {
	l := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{interval: interval, subUC: subUC, log: &l}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.subUC.FinishExpired(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry sweep failed")
				continue
			}
			if n > 0 {
				metrics.AddSubscriptionsExpired(n)
				w.log.Info().Int64("count", n).Msg("subscriptions expired")
			}
		}
	}
}
