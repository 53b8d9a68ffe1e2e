package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// alertCooldown suppresses repeat emails for the same ingredient. Every sale
// of a low item would otherwise fire one.
const alertCooldown = time.Hour

// StockAlertWorker emails the configured recipient when an ingredient runs
// low or goes negative. Sends go through the mailer's circuit breaker.
type StockAlertWorker struct {
	mailer *infra.Mailer
	rdb    *redis.Client
	to     string
}

func NewStockAlertWorker(mailer *infra.Mailer, rdb *redis.Client, to string) *StockAlertWorker {
	return &StockAlertWorker{mailer: mailer, rdb: rdb, to: to}
}

func (w *StockAlertWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("stock_alert_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	if w.to == "" {
		log.Debug().Str("item", payload.Name).Msg("stock_alert_worker: no recipient configured, dropping")
		return nil
	}

	// Cooldown per ingredient so a busy service doesn't flood the inbox.
	cooldownKey := "alerted:" + payload.InventoryItemID
	if w.rdb != nil {
		set, err := w.rdb.SetNX(ctx, cooldownKey, "1", alertCooldown).Result()
		if err == nil && !set {
			log.Debug().Str("item", payload.Name).Msg("stock_alert_worker: cooldown active, skipping")
			return nil
		}
	}

	subject := fmt.Sprintf("[Inventario] Stock bajo: %s", payload.Name)
	if payload.Negative {
		subject = fmt.Sprintf("[Inventario] STOCK NEGATIVO: %s", payload.Name)
	}

	body := fmt.Sprintf("El insumo %q quedó en %s %s.", payload.Name, payload.Quantity, payload.Unit)
	if payload.Threshold != nil {
		body += fmt.Sprintf(" Umbral configurado: %s %s.", *payload.Threshold, payload.Unit)
	}
	if payload.Negative {
		body += " El stock es negativo: revise los últimos movimientos y haga un recuento físico."
	}

	if err := w.mailer.Send(w.to, subject, body); err != nil {
		// Release the cooldown so the replay can actually send.
		if w.rdb != nil {
			w.rdb.Del(ctx, cooldownKey)
		}
		return fmt.Errorf("send stock alert for %s: %w", payload.Name, err)
	}

	log.Info().Str("item", payload.Name).Str("quantity", payload.Quantity).Msg("stock alert sent")
	return nil
}
