package service

import (
	"context"
	"errors"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/model"
	"github.com/JorgeKerilima19/app-management-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OrderPipeline drives an order item's life: edits against the pending order,
// the send to kitchen/bar, and the station-side status flips. Marking an item
// READY is where inventory leaves the building, so that call and the recipe
// deduction share one transaction.
type OrderPipeline interface {
	AddItem(ctx context.Context, staffID uuid.UUID, req dto.AddItemRequest) (*dto.OrderResponse, error)
	RemoveItem(ctx context.Context, req dto.RemoveItemRequest) (*dto.OrderResponse, error)
	UpdateNotes(ctx context.Context, req dto.UpdateNotesRequest) (*dto.OrderResponse, error)
	SendToStations(ctx context.Context, staffID, tableID uuid.UUID) (*dto.SendResult, error)
	MarkItemPreparing(ctx context.Context, orderItemID uuid.UUID) error
	MarkItemReady(ctx context.Context, orderItemID uuid.UUID) (*dto.DeductionResult, error)
	ListStationItems(ctx context.Context, station string) ([]dto.StationItemResponse, error)
}

type orderPipeline struct {
	tables    repository.TableRepository
	checks    repository.CheckRepository
	orders    repository.OrderRepository
	menu      repository.MenuRepository
	ledger    CheckLedger
	inventory InventoryLedger
}

func NewOrderPipeline(
	tables repository.TableRepository,
	checks repository.CheckRepository,
	orders repository.OrderRepository,
	menu repository.MenuRepository,
	ledger CheckLedger,
	inventory InventoryLedger,
) OrderPipeline {
	return &orderPipeline{
		tables:    tables,
		checks:    checks,
		orders:    orders,
		menu:      menu,
		ledger:    ledger,
		inventory: inventory,
	}
}

// lockOpenCheck resolves table → occupied table's open check, locking the
// table row so concurrent edits of the same table's pending order serialize.
func (s *orderPipeline) lockOpenCheck(tx *gorm.DB, tableID uuid.UUID) (*model.Table, error) {
	t, err := s.tables.FindByIDTx(tx, tableID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("mesa no encontrada")
		}
		return nil, err
	}
	if t.Status != model.TableOccupied || t.CurrentCheckID == nil {
		return nil, apierror.PreconditionFailed("la mesa no tiene una cuenta abierta")
	}
	return t, nil
}

// pendingOrder fetches the check's pending order, creating it when a previous
// send consumed it. The partial unique index turns the create race into a
// duplicate-key error, which resolves with a re-read.
func (s *orderPipeline) pendingOrder(tx *gorm.DB, checkID, staffID uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindPendingByCheckTx(tx, checkID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	fresh := &model.Order{CheckID: checkID, Status: model.OrderPending, OrderedByID: staffID}
	if err := s.orders.CreateTx(tx, fresh); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.orders.FindPendingByCheckTx(tx, checkID)
		}
		return nil, err
	}
	return fresh, nil
}

func (s *orderPipeline) AddItem(ctx context.Context, staffID uuid.UUID, req dto.AddItemRequest) (*dto.OrderResponse, error) {
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return nil, apierror.ValidationFailed("table_id inválido")
	}
	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		return nil, apierror.ValidationFailed("menu_item_id inválido")
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	var resp *dto.OrderResponse
	err = runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		t, err := s.lockOpenCheck(tx, tableID)
		if err != nil {
			return err
		}
		order, err := s.pendingOrder(tx, *t.CurrentCheckID, staffID)
		if err != nil {
			return err
		}

		mi, err := s.menu.FindItemByIDTx(tx, menuItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("producto no encontrado")
			}
			return err
		}
		if !mi.Active {
			return apierror.PreconditionFailed("el producto no está disponible")
		}

		existing, err := s.orders.FindItemByMenuTx(tx, order.ID, menuItemID)
		switch {
		case err == nil:
			// Same dish twice in one pending order collapses into one line.
			// The original price snapshot stays.
			if err := s.orders.UpdateItemQuantityTx(tx, existing.ID, existing.Quantity+qty); err != nil {
				return err
			}
			if req.Notes != nil {
				if err := s.orders.UpdateItemNotesTx(tx, existing.ID, req.Notes); err != nil {
					return err
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := &model.OrderItem{
				OrderID:      order.ID,
				MenuItemID:   menuItemID,
				Quantity:     qty,
				Notes:        req.Notes,
				PriceAtOrder: mi.Price,
				Status:       model.ItemPending,
			}
			if err := s.orders.CreateItemTx(tx, item); err != nil {
				return err
			}
		default:
			return err
		}

		if _, err := s.ledger.RecomputeTotalTx(tx, *t.CurrentCheckID); err != nil {
			return err
		}
		return s.loadOrderResponse(tx, order, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *orderPipeline) RemoveItem(ctx context.Context, req dto.RemoveItemRequest) (*dto.OrderResponse, error) {
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return nil, apierror.ValidationFailed("table_id inválido")
	}
	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		return nil, apierror.ValidationFailed("menu_item_id inválido")
	}

	var resp *dto.OrderResponse
	err = runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		t, err := s.lockOpenCheck(tx, tableID)
		if err != nil {
			return err
		}
		order, err := s.orders.FindPendingByCheckTx(tx, *t.CurrentCheckID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.PreconditionFailed("no hay pedido pendiente; los artículos enviados se quitan con una anulación")
			}
			return err
		}

		item, err := s.orders.FindItemByMenuTx(tx, order.ID, menuItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.PreconditionFailed("el artículo no está en el pedido pendiente; los artículos enviados se quitan con una anulación")
			}
			return err
		}

		if item.Quantity > 1 {
			if err := s.orders.UpdateItemQuantityTx(tx, item.ID, item.Quantity-1); err != nil {
				return err
			}
		} else {
			if err := s.orders.DeleteItemTx(tx, item.ID); err != nil {
				return err
			}
		}

		if _, err := s.ledger.RecomputeTotalTx(tx, *t.CurrentCheckID); err != nil {
			return err
		}
		return s.loadOrderResponse(tx, order, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *orderPipeline) UpdateNotes(ctx context.Context, req dto.UpdateNotesRequest) (*dto.OrderResponse, error) {
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return nil, apierror.ValidationFailed("table_id inválido")
	}
	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		return nil, apierror.ValidationFailed("menu_item_id inválido")
	}

	var resp *dto.OrderResponse
	err = runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		t, err := s.lockOpenCheck(tx, tableID)
		if err != nil {
			return err
		}
		order, err := s.orders.FindPendingByCheckTx(tx, *t.CurrentCheckID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.PreconditionFailed("no hay pedido pendiente para esta mesa")
			}
			return err
		}
		item, err := s.orders.FindItemByMenuTx(tx, order.ID, menuItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("el artículo no está en el pedido pendiente")
			}
			return err
		}

		notes := &req.Notes
		if req.Notes == "" {
			notes = nil
		}
		if err := s.orders.UpdateItemNotesTx(tx, item.ID, notes); err != nil {
			return err
		}
		// Notes never move the total, but every pending-order edit goes
		// through the same recompute path.
		if _, err := s.ledger.RecomputeTotalTx(tx, *t.CurrentCheckID); err != nil {
			return err
		}
		return s.loadOrderResponse(tx, order, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *orderPipeline) SendToStations(ctx context.Context, staffID, tableID uuid.UUID) (*dto.SendResult, error) {
	result := &dto.SendResult{}
	err := runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		t, err := s.lockOpenCheck(tx, tableID)
		if err != nil {
			return err
		}
		order, err := s.orders.FindPendingByCheckTx(tx, *t.CurrentCheckID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // nothing staged, idempotent no-op
			}
			return err
		}
		items, err := s.orders.ListItemsByOrderTx(tx, order.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil // empty pending order, same no-op
		}

		now := time.Now()
		var kitchenAt, barAt *time.Time
		for i := range items {
			if items[i].MenuItem == nil {
				continue
			}
			switch items[i].MenuItem.Station {
			case model.StationBar:
				barAt = &now
			default:
				kitchenAt = &now
			}
		}
		if err := s.orders.MarkSentTx(tx, order.ID, kitchenAt, barAt); err != nil {
			return err
		}

		// The next round of items gets a fresh pending order right away.
		fresh := &model.Order{CheckID: *t.CurrentCheckID, Status: model.OrderPending, OrderedByID: staffID}
		if err := s.orders.CreateTx(tx, fresh); err != nil {
			return err
		}

		result.Sent = true
		result.OrderID = order.ID.String()
		result.HasKitchen = kitchenAt != nil
		result.HasBar = barAt != nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Sent {
		log.Info().
			Str("table_id", tableID.String()).
			Str("order_id", result.OrderID).
			Bool("kitchen", result.HasKitchen).
			Bool("bar", result.HasBar).
			Msg("order sent to stations")
	}
	return result, nil
}

func (s *orderPipeline) MarkItemPreparing(ctx context.Context, orderItemID uuid.UUID) error {
	return runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		item, err := s.orders.FindItemByIDTx(tx, orderItemID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("artículo no encontrado")
			}
			return err
		}
		if item.Status != model.ItemPending {
			return apierror.PreconditionFailed("el artículo ya no está pendiente")
		}
		if err := s.orders.UpdateItemStatusTx(tx, item.ID, model.ItemPreparing); err != nil {
			return err
		}
		return s.orders.TouchTx(tx, item.OrderID)
	})
}

func (s *orderPipeline) MarkItemReady(ctx context.Context, orderItemID uuid.UUID) (*dto.DeductionResult, error) {
	var (
		res    *dto.DeductionResult
		alerts []StockAlert
	)
	err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		item, err := s.orders.FindItemByIDTx(tx, orderItemID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("artículo no encontrado")
			}
			return err
		}
		if item.Status == model.ItemVoided {
			return apierror.PreconditionFailed("el artículo fue anulado")
		}

		if item.Status != model.ItemReady {
			if err := s.orders.UpdateItemStatusTx(tx, item.ID, model.ItemReady); err != nil {
				return err
			}
			if err := s.orders.TouchTx(tx, item.OrderID); err != nil {
				return err
			}
			if err := s.maybeCompleteOrder(tx, item.OrderID, item.ID); err != nil {
				return err
			}
		}

		// Status flip and recipe deduction commit or roll back together.
		res, alerts, err = s.inventory.DeductForOrderItemTx(tx, item)
		return err
	})
	if errors.Is(err, errDeductionRaced) {
		// A concurrent transaction deducted (and marked ready) first. The
		// outcome the caller wanted already holds.
		return &dto.DeductionResult{OrderItemID: orderItemID.String(), Skipped: "already_deducted"}, nil
	}
	if err != nil {
		return nil, err
	}

	s.inventory.PublishAlerts(ctx, alerts)
	return res, nil
}

// maybeCompleteOrder flips the order to READY once no live item remains
// unready. justReadied is needed because the flip of that row may not be
// visible through the repo read yet.
func (s *orderPipeline) maybeCompleteOrder(tx *gorm.DB, orderID, justReadied uuid.UUID) error {
	items, err := s.orders.ListItemsByOrderTx(tx, orderID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == justReadied {
			continue
		}
		switch items[i].Status {
		case model.ItemReady, model.ItemVoided:
		default:
			return nil
		}
	}
	return s.orders.UpdateStatusTx(tx, orderID, model.OrderReady)
}

func (s *orderPipeline) ListStationItems(ctx context.Context, station string) ([]dto.StationItemResponse, error) {
	if station != model.StationKitchen && station != model.StationBar {
		return nil, apierror.ValidationFailed("estación desconocida")
	}
	items, err := s.orders.ListStationItems(ctx, station)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StationItemResponse, 0, len(items))
	for i := range items {
		it := &items[i]
		row := dto.StationItemResponse{
			OrderItemID: it.ID.String(),
			OrderID:     it.OrderID.String(),
			Quantity:    it.Quantity,
			Notes:       it.Notes,
			Status:      it.Status,
		}
		if it.MenuItem != nil {
			row.MenuItem = it.MenuItem.Name
		}
		if it.Order != nil {
			var sentAt *time.Time
			if station == model.StationBar {
				sentAt = it.Order.SentToBarAt
			} else {
				sentAt = it.Order.SentToKitchenAt
			}
			if sentAt != nil {
				s := sentAt.Format(time.RFC3339)
				row.SentAt = &s
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *orderPipeline) loadOrderResponse(tx *gorm.DB, order *model.Order, out **dto.OrderResponse) error {
	items, err := s.orders.ListItemsByOrderTx(tx, order.ID)
	if err != nil {
		return err
	}
	order.Items = items
	*out = orderToResponse(order)
	return nil
}
