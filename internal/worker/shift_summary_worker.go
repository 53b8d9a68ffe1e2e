package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// shiftKeyRetention keeps closed-day aggregates around long enough for the
// morning-after review.
const shiftKeyRetention = 72 * time.Hour

// ShiftSummaryWorker folds every settled check into a per-day Redis hash:
// shift:2026-08-31 → {count, revenue, revenue:CASH, revenue:MOBILE_PAY, ...}.
// The owner dashboard reads the hash directly; nothing here touches Postgres.
type ShiftSummaryWorker struct {
	rdb *redis.Client
}

func NewShiftSummaryWorker(rdb *redis.Client) *ShiftSummaryWorker {
	return &ShiftSummaryWorker{rdb: rdb}
}

// ShiftKey returns the aggregate key for the day a check closed on.
func ShiftKey(t time.Time) string {
	return "shift:" + t.Format("2006-01-02")
}

func (w *ShiftSummaryWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ShiftSummaryPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("shift_summary_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}

	closedAt, err := time.Parse(time.RFC3339, payload.ClosedAt)
	if err != nil {
		closedAt = time.Now().UTC()
	}
	total, err := strconv.ParseFloat(payload.Total, 64)
	if err != nil {
		log.Error().Str("total", payload.Total).Msg("shift_summary_worker: unparseable total")
		return nil
	}

	key := ShiftKey(closedAt)
	pipe := w.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, "count", 1)
	pipe.HIncrByFloat(ctx, key, "revenue", total)
	pipe.HIncrByFloat(ctx, key, "revenue:"+payload.Method, total)
	pipe.Expire(ctx, key, shiftKeyRetention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("aggregate check %s into %s: %w", payload.CheckID, key, err)
	}

	log.Debug().
		Str("check_id", payload.CheckID).
		Str("method", payload.Method).
		Str("total", payload.Total).
		Str("shift", key).
		Msg("check folded into shift summary")
	return nil
}

// ReadShift returns the aggregate for one day, for the summary endpoint.
func (w *ShiftSummaryWorker) ReadShift(ctx context.Context, day time.Time) (map[string]string, error) {
	return w.rdb.HGetAll(ctx, ShiftKey(day)).Result()
}
