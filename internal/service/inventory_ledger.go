package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/model"
	"github.com/JorgeKerilima19/app-management-sub000/internal/repository"
	"github.com/JorgeKerilima19/app-management-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// errDeductionRaced signals that a concurrent transaction inserted the
// SALE_DEDUCTION rows first. The caller rolls back and reports the deduction
// as already applied.
var errDeductionRaced = errors.New("sale deduction already recorded by concurrent transaction")

// StockAlert is the post-commit notification for an ingredient that crossed
// its threshold or went negative during a deduction.
type StockAlert struct {
	InventoryItemID uuid.UUID
	Name            string
	Unit            string
	Quantity        decimal.Decimal
	Threshold       *decimal.Decimal
}

// InventoryLedger is the only writer of inventory quantities. Every change
// goes through a transaction row; SALE_DEDUCTION rows double as the
// idempotency guard that makes deducting the same order item twice a no-op.
type InventoryLedger interface {
	// DeductForOrderItemTx consumes the non-optional recipe lines of the
	// item's menu item. Runs inside the caller's transaction; returned alerts
	// must be published only after that transaction commits.
	DeductForOrderItemTx(tx *gorm.DB, item *model.OrderItem) (*dto.DeductionResult, []StockAlert, error)
	// PublishAlerts enqueues stock alert jobs. Safe to call with nil alerts.
	PublishAlerts(ctx context.Context, alerts []StockAlert)

	CreateItem(ctx context.Context, req dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error)
	AdjustStock(ctx context.Context, staffID uuid.UUID, req dto.AdjustStockRequest) (*dto.InventoryItemResponse, error)
	Restock(ctx context.Context, staffID uuid.UUID, req dto.RestockRequest) (*dto.InventoryItemResponse, error)
	ListItems(ctx context.Context) ([]dto.InventoryItemResponse, error)
	ListTransactions(ctx context.Context, filter repository.InventoryTxFilter) (*dto.InventoryTxListResponse, error)
}

type inventoryLedger struct {
	inventory  repository.InventoryRepository
	menu       repository.MenuRepository
	dispatcher *worker.Dispatcher
}

func NewInventoryLedger(
	inventory repository.InventoryRepository,
	menu repository.MenuRepository,
	dispatcher *worker.Dispatcher,
) InventoryLedger {
	return &inventoryLedger{inventory: inventory, menu: menu, dispatcher: dispatcher}
}

func (s *inventoryLedger) DeductForOrderItemTx(tx *gorm.DB, item *model.OrderItem) (*dto.DeductionResult, []StockAlert, error) {
	res := &dto.DeductionResult{OrderItemID: item.ID.String()}

	if item.Status == model.ItemVoided {
		res.Skipped = "voided"
		return res, nil, nil
	}

	// First layer of the guard: a committed deduction for this item means
	// re-marking READY deducts nothing.
	deducted, err := s.inventory.HasSaleDeductionTx(tx, item.ID)
	if err != nil {
		return nil, nil, err
	}
	if deducted {
		res.Skipped = "already_deducted"
		return res, nil, nil
	}

	recipe, err := s.menu.RecipeForTx(tx, item.MenuItemID)
	if err != nil {
		return nil, nil, err
	}

	qty := decimal.NewFromInt(int64(item.Quantity))
	var alerts []StockAlert

	for _, line := range recipe {
		if line.IsOptional {
			continue
		}
		consumed := line.QuantityRequired.Mul(qty)

		ing, err := s.inventory.FindItemByIDTx(tx, line.InventoryItemID, true)
		if err != nil {
			return nil, nil, fmt.Errorf("ingrediente %s: %w", line.InventoryItemID, err)
		}

		if err := s.inventory.AdjustQuantityTx(tx, ing.ID, consumed.Neg()); err != nil {
			return nil, nil, err
		}

		mov := &model.InventoryTransaction{
			InventoryItemID: ing.ID,
			Type:            model.TxSaleDeduction,
			QuantityChange:  consumed.Neg(),
			ReferenceModel:  model.RefOrderItem,
			ReferenceID:     item.ID,
			Reason:          fmt.Sprintf("Venta: consumo de receta x%d", item.Quantity),
		}
		if err := s.inventory.CreateTransactionTx(tx, mov); err != nil {
			// Second layer: the partial unique index rejects the row when a
			// concurrent transaction won the race past the guard read.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, nil, errDeductionRaced
			}
			return nil, nil, err
		}

		remaining := ing.CurrentQuantity.Sub(consumed)
		if remaining.IsNegative() || belowThreshold(remaining, ing.LowStockThreshold) {
			alerts = append(alerts, StockAlert{
				InventoryItemID: ing.ID,
				Name:            ing.Name,
				Unit:            ing.Unit,
				Quantity:        remaining,
				Threshold:       ing.LowStockThreshold,
			})
		}
		res.Lines++
	}

	res.Applied = true
	return res, alerts, nil
}

func belowThreshold(qty decimal.Decimal, threshold *decimal.Decimal) bool {
	return threshold != nil && qty.LessThanOrEqual(*threshold)
}

func (s *inventoryLedger) PublishAlerts(ctx context.Context, alerts []StockAlert) {
	if s.dispatcher == nil {
		return
	}
	for _, a := range alerts {
		payload := worker.StockAlertPayload{
			InventoryItemID: a.InventoryItemID.String(),
			Name:            a.Name,
			Unit:            a.Unit,
			Quantity:        a.Quantity.String(),
			Negative:        a.Quantity.IsNegative(),
		}
		if a.Threshold != nil {
			t := a.Threshold.String()
			payload.Threshold = &t
		}
		if err := s.dispatcher.EnqueueStockAlert(ctx, payload); err != nil {
			// Alerting is best-effort; the deduction already committed.
			log.Error().Err(err).Str("inventory_item", a.Name).Msg("failed to enqueue stock alert")
		}
	}
}

func (s *inventoryLedger) CreateItem(ctx context.Context, req dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	it := &model.InventoryItem{
		Name:              req.Name,
		CurrentQuantity:   req.InitialQuantity,
		Unit:              req.Unit,
		LowStockThreshold: req.LowStockThreshold,
		CostPerUnit:       req.CostPerUnit,
	}
	if err := s.inventory.CreateItem(ctx, it); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("ya existe un insumo con ese nombre")
		}
		return nil, err
	}
	return inventoryItemToResponse(it), nil
}

func (s *inventoryLedger) AdjustStock(ctx context.Context, staffID uuid.UUID, req dto.AdjustStockRequest) (*dto.InventoryItemResponse, error) {
	itemID, err := uuid.Parse(req.InventoryItemID)
	if err != nil {
		return nil, apierror.ValidationFailed("inventory_item_id inválido")
	}
	if req.Delta.IsZero() {
		return nil, apierror.ValidationFailed("el ajuste no puede ser cero")
	}
	return s.applyManualMovement(ctx, staffID, itemID, model.TxManualAdjustment, req.Delta, req.Reason)
}

func (s *inventoryLedger) Restock(ctx context.Context, staffID uuid.UUID, req dto.RestockRequest) (*dto.InventoryItemResponse, error) {
	itemID, err := uuid.Parse(req.InventoryItemID)
	if err != nil {
		return nil, apierror.ValidationFailed("inventory_item_id inválido")
	}
	if !req.Quantity.IsPositive() {
		return nil, apierror.ValidationFailed("la cantidad de reposición debe ser positiva")
	}
	return s.applyManualMovement(ctx, staffID, itemID, model.TxRestock, req.Quantity, req.Reason)
}

func (s *inventoryLedger) applyManualMovement(ctx context.Context, staffID, itemID uuid.UUID, movType string, delta decimal.Decimal, reason string) (*dto.InventoryItemResponse, error) {
	var updated *model.InventoryItem
	err := runTx(ctx, s.inventory.DB(), func(tx *gorm.DB) error {
		ing, err := s.inventory.FindItemByIDTx(tx, itemID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("insumo no encontrado")
			}
			return err
		}
		if err := s.inventory.AdjustQuantityTx(tx, ing.ID, delta); err != nil {
			return err
		}
		mov := &model.InventoryTransaction{
			InventoryItemID: ing.ID,
			Type:            movType,
			QuantityChange:  delta,
			ReferenceModel:  model.RefStaff,
			ReferenceID:     staffID,
			Reason:          reason,
			PerformedByID:   &staffID,
		}
		if err := s.inventory.CreateTransactionTx(tx, mov); err != nil {
			return err
		}
		ing.CurrentQuantity = ing.CurrentQuantity.Add(delta)
		ing.UpdatedAt = time.Now()
		updated = ing
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("inventory_item", updated.Name).
		Str("type", movType).
		Str("delta", delta.String()).
		Str("staff_id", staffID.String()).
		Msg("manual inventory movement")

	if updated.CurrentQuantity.IsNegative() || belowThreshold(updated.CurrentQuantity, updated.LowStockThreshold) {
		s.PublishAlerts(ctx, []StockAlert{{
			InventoryItemID: updated.ID,
			Name:            updated.Name,
			Unit:            updated.Unit,
			Quantity:        updated.CurrentQuantity,
			Threshold:       updated.LowStockThreshold,
		}})
	}
	return inventoryItemToResponse(updated), nil
}

func (s *inventoryLedger) ListItems(ctx context.Context) ([]dto.InventoryItemResponse, error) {
	items, err := s.inventory.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryItemResponse, 0, len(items))
	for i := range items {
		out = append(out, *inventoryItemToResponse(&items[i]))
	}
	return out, nil
}

func (s *inventoryLedger) ListTransactions(ctx context.Context, filter repository.InventoryTxFilter) (*dto.InventoryTxListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}
	rows, total, err := s.inventory.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.InventoryTxListResponse{
		Data:  make([]dto.InventoryTxResponse, 0, len(rows)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range rows {
		resp.Data = append(resp.Data, inventoryTxToResponse(&rows[i]))
	}
	return resp, nil
}

func inventoryItemToResponse(it *model.InventoryItem) *dto.InventoryItemResponse {
	return &dto.InventoryItemResponse{
		ID:                it.ID.String(),
		Name:              it.Name,
		CurrentQuantity:   it.CurrentQuantity,
		Unit:              it.Unit,
		LowStockThreshold: it.LowStockThreshold,
		LowStock:          it.CurrentQuantity.IsNegative() || belowThreshold(it.CurrentQuantity, it.LowStockThreshold),
	}
}

func inventoryTxToResponse(m *model.InventoryTransaction) dto.InventoryTxResponse {
	r := dto.InventoryTxResponse{
		ID:             m.ID.String(),
		Type:           m.Type,
		QuantityChange: m.QuantityChange,
		ReferenceModel: m.ReferenceModel,
		ReferenceID:    m.ReferenceID.String(),
		Reason:         m.Reason,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
	if m.InventoryItem != nil {
		r.InventoryItem = m.InventoryItem.Name
	}
	return r
}
