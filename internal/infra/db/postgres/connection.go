package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"social-platform-backend/internal/config"
	"social-platform-backend/internal/infra/metrics"
)

// Connect returns a live *pgxpool.Pool for the configured database URL.
func Connect(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.Connect(connectCtx, cfg.URL)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// ReportPoolStats feeds pool gauges to Prometheus until ctx is cancelled.
func ReportPoolStats(ctx context.Context, pool *pgxpool.Pool) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := pool.Stat()
			metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
		}
	}
}
