package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	QueueStockAlerts  = "jobs:stock_alerts"
	QueueShiftSummary = "jobs:shift_summary"
)

// Job is the generic envelope for all async tasks. Attempts counts delivery
// tries so the DLQ replay cron can give up eventually.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// StockAlertPayload notifies that an ingredient crossed its low-stock
// threshold (or went negative) after a deduction or manual movement.
type StockAlertPayload struct {
	InventoryItemID string  `json:"inventory_item_id"`
	Name            string  `json:"name"`
	Unit            string  `json:"unit"`
	Quantity        string  `json:"quantity"`
	Threshold       *string `json:"threshold,omitempty"`
	Negative        bool    `json:"negative"`
}

// ShiftSummaryPayload is emitted once per settled check and folded into the
// day's running totals.
type ShiftSummaryPayload struct {
	CheckID  string `json:"check_id"`
	Total    string `json:"total"`
	Method   string `json:"method"`
	ClosedAt string `json:"closed_at"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueStockAlert pushes a low-stock notification job to Redis.
func (d *Dispatcher) EnqueueStockAlert(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueStockAlerts, "stock_alert", payload)
}

// EnqueueShiftSummary pushes a settled-check summary job to Redis.
func (d *Dispatcher) EnqueueShiftSummary(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueShiftSummary, "shift_summary", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data, Attempts: 1}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
