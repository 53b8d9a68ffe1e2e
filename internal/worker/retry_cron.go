package worker

// Background goroutine that periodically replays dead-lettered jobs. Entries
// under MaxJobAttempts go back to their original queue with the attempt count
// bumped; the rest stay in the DLQ for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 60 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the replay goroutine.
type RetryCronConfig struct {
	RDB    *redis.Client
	Mailer *infra.Mailer
}

// StartRetryCron launches a goroutine that ticks every minute and replays a
// small batch from each DLQ. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				replayDLQ(ctx, cfg, QueueStockAlerts)
				replayDLQ(ctx, cfg, QueueShiftSummary)
			}
		}
	}()
}

func replayDLQ(ctx context.Context, cfg RetryCronConfig, queue string) {
	// Stock alerts go out over SMTP; while the relay breaker is open a replay
	// would fail instantly and burn an attempt.
	if queue == QueueStockAlerts && cfg.Mailer != nil && cfg.Mailer.BreakerState() == "open" {
		log.Debug().Msg("retry_cron: mail circuit breaker is open, skipping stock alert replay")
		return
	}

	dlqKey := DLQPrefix + queue
	for i := 0; i < retryBatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty or Redis unavailable
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq", dlqKey).Msg("retry_cron: corrupt DLQ entry dropped")
			continue
		}

		if entry.Attempts >= MaxJobAttempts {
			// Push back for manual inspection and stop draining this queue:
			// everything behind it is just as exhausted.
			if err := cfg.RDB.LPush(ctx, dlqKey, raw).Err(); err != nil {
				log.Error().Err(err).Str("dlq", dlqKey).Msg("retry_cron: failed to requeue exhausted entry")
			}
			return
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts + 1}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to marshal replay job")
			continue
		}
		if err := cfg.RDB.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", entry.OriginalQueue).Msg("retry_cron: failed to replay job")
			continue
		}

		log.Info().
			Str("queue", entry.OriginalQueue).
			Str("type", entry.JobType).
			Int("attempt", entry.Attempts+1).
			Msg("retry_cron: job replayed from DLQ")
	}
}
