package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"catalog-broadcast-bot/internal/infra/metrics"
)

// PoolStats reports total, idle and in-use connections of a database pool.
type PoolStats func() (total, idle, inUse int32)

// PoolStatsWorker periodically publishes database pool stats as gauges.
type PoolStatsWorker struct {
	interval time.Duration
	stats    PoolStats
	log      *zerolog.Logger
}

func NewPoolStatsWorker(interval time.Duration, stats PoolStats, logger *zerolog.Logger) *PoolStatsWorker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	l := logger.With().Str("component", "PoolStatsWorker").Logger()
	return &PoolStatsWorker{interval: interval, stats: stats, log: &l}
}

// Run publishes once immediately and then on every tick until ctx is done.
func (w *PoolStatsWorker) Run(ctx context.Context) error {
	w.log.Debug().Dur("interval", w.interval).Msg("starting pool stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.publish()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug().Msg("stopping pool stats worker")
			return ctx.Err()
		case <-ticker.C:
			w.publish()
		}
	}
}

func (w *PoolStatsWorker) publish() {
	total, idle, inUse := w.stats()
	metrics.SetDBPoolStats(total, idle, inUse)
}
