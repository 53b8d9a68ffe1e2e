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

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// VoidService cancels items, orders and whole checks, always leaving an
// audit row behind. Inventory is never restored: an item that reached READY
// consumed real ingredients, and the void records a write-off, not an undo.
type VoidService interface {
	VoidItem(ctx context.Context, staffID uuid.UUID, req dto.VoidItemRequest) (*dto.VoidRecordResponse, error)
	VoidOrder(ctx context.Context, staffID uuid.UUID, req dto.VoidOrderRequest) (*dto.VoidRecordResponse, error)
	VoidCheck(ctx context.Context, staffID uuid.UUID, req dto.VoidCheckRequest) (*dto.VoidRecordResponse, error)
	ListVoids(ctx context.Context, target string, targetID uuid.UUID) ([]dto.VoidRecordResponse, error)
}

type voidService struct {
	orders repository.OrderRepository
	checks repository.CheckRepository
	tables repository.TableRepository
	voids  repository.VoidRepository
	ledger CheckLedger
}

func NewVoidService(
	orders repository.OrderRepository,
	checks repository.CheckRepository,
	tables repository.TableRepository,
	voids repository.VoidRepository,
	ledger CheckLedger,
) VoidService {
	return &voidService{orders: orders, checks: checks, tables: tables, voids: voids, ledger: ledger}
}

func (s *voidService) VoidItem(ctx context.Context, staffID uuid.UUID, req dto.VoidItemRequest) (*dto.VoidRecordResponse, error) {
	itemID, err := uuid.Parse(req.OrderItemID)
	if err != nil {
		return nil, apierror.ValidationFailed("order_item_id inválido")
	}
	if req.Quantity < 1 {
		return nil, apierror.ValidationFailed("la cantidad a anular debe ser al menos 1")
	}

	var record model.VoidRecord
	err = runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		item, err := s.orders.FindItemByIDTx(tx, itemID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("artículo no encontrado")
			}
			return err
		}
		if item.Status == model.ItemVoided {
			return apierror.PreconditionFailed("el artículo ya fue anulado")
		}
		if req.Quantity > item.Quantity {
			return apierror.ValidationFailed(
				fmt.Sprintf("no se pueden anular %d de %d unidades", req.Quantity, item.Quantity))
		}

		order, err := s.orders.FindByIDTx(tx, item.OrderID, true)
		if err != nil {
			return err
		}
		check, err := s.checks.FindByIDTx(tx, order.CheckID, true)
		if err != nil {
			return err
		}
		if check.Status != model.CheckOpen {
			return apierror.PreconditionFailed("la cuenta ya está cerrada")
		}

		record = model.VoidRecord{
			Target:     model.VoidTargetOrderItem,
			TargetID:   item.ID,
			Reason:     req.Reason,
			VoidedByID: staffID,
			Note:       req.Note,
		}
		if record.Note == nil && req.Quantity < item.Quantity {
			partial := fmt.Sprintf("anulación parcial: %d de %d", req.Quantity, item.Quantity)
			record.Note = &partial
		}
		if err := s.voids.CreateTx(tx, &record); err != nil {
			return err
		}

		if item.Status == model.ItemReady {
			// Write-off: the ingredients are gone, stock stays deducted.
			log.Warn().
				Str("order_item_id", item.ID.String()).
				Int("quantity", req.Quantity).
				Str("reason", req.Reason).
				Msg("voiding READY item, inventory not restored")
		}

		if req.Quantity == item.Quantity {
			if err := s.orders.DeleteItemTx(tx, item.ID); err != nil {
				return err
			}
		} else {
			if err := s.orders.UpdateItemQuantityTx(tx, item.ID, item.Quantity-req.Quantity); err != nil {
				return err
			}
		}

		_, err = s.ledger.RecomputeTotalTx(tx, order.CheckID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return voidToResponse(&record), nil
}

func (s *voidService) VoidOrder(ctx context.Context, staffID uuid.UUID, req dto.VoidOrderRequest) (*dto.VoidRecordResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, apierror.ValidationFailed("order_id inválido")
	}

	var record model.VoidRecord
	err = runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDTx(tx, orderID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("pedido no encontrado")
			}
			return err
		}
		if order.Status == model.OrderVoided {
			return apierror.PreconditionFailed("el pedido ya fue anulado")
		}
		check, err := s.checks.FindByIDTx(tx, order.CheckID, true)
		if err != nil {
			return err
		}
		if check.Status != model.CheckOpen {
			return apierror.PreconditionFailed("la cuenta ya está cerrada")
		}

		record = model.VoidRecord{
			Target:     model.VoidTargetOrder,
			TargetID:   order.ID,
			Reason:     req.Reason,
			VoidedByID: staffID,
			Note:       req.Note,
		}
		if err := s.voids.CreateTx(tx, &record); err != nil {
			return err
		}
		if err := s.orders.UpdateStatusTx(tx, order.ID, model.OrderVoided); err != nil {
			return err
		}
		// A voided PENDING order must be replaced so the check keeps exactly
		// one pending order for new items.
		if order.Status == model.OrderPending {
			fresh := &model.Order{CheckID: order.CheckID, Status: model.OrderPending, OrderedByID: staffID}
			if err := s.orders.CreateTx(tx, fresh); err != nil {
				return err
			}
		}

		_, err = s.ledger.RecomputeTotalTx(tx, order.CheckID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return voidToResponse(&record), nil
}

func (s *voidService) VoidCheck(ctx context.Context, staffID uuid.UUID, req dto.VoidCheckRequest) (*dto.VoidRecordResponse, error) {
	checkID, err := uuid.Parse(req.CheckID)
	if err != nil {
		return nil, apierror.ValidationFailed("check_id inválido")
	}

	var record model.VoidRecord
	err = runTx(ctx, s.checks.DB(), func(tx *gorm.DB) error {
		check, err := s.checks.FindByIDTx(tx, checkID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("cuenta no encontrada")
			}
			return err
		}
		if check.Status != model.CheckOpen {
			return apierror.PreconditionFailed("solo se puede anular una cuenta abierta")
		}

		record = model.VoidRecord{
			Target:     model.VoidTargetCheck,
			TargetID:   check.ID,
			Reason:     req.Reason,
			VoidedByID: staffID,
			Note:       req.Note,
		}
		if err := s.voids.CreateTx(tx, &record); err != nil {
			return err
		}
		if err := s.checks.CloseTx(tx, check.ID, model.CheckVoided, time.Now()); err != nil {
			return err
		}
		return s.tables.FreeTablesForCheckTx(tx, check.ID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("check_id", checkID.String()).
		Str("reason", req.Reason).
		Str("staff_id", staffID.String()).
		Msg("check voided")

	return voidToResponse(&record), nil
}

func (s *voidService) ListVoids(ctx context.Context, target string, targetID uuid.UUID) ([]dto.VoidRecordResponse, error) {
	switch target {
	case model.VoidTargetOrderItem, model.VoidTargetOrder, model.VoidTargetCheck:
	default:
		return nil, apierror.ValidationFailed("target desconocido")
	}
	rows, err := s.voids.ListByTarget(ctx, target, targetID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VoidRecordResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *voidToResponse(&rows[i]))
	}
	return out, nil
}

func voidToResponse(v *model.VoidRecord) *dto.VoidRecordResponse {
	return &dto.VoidRecordResponse{
		ID:        v.ID.String(),
		Target:    v.Target,
		TargetID:  v.TargetID.String(),
		Reason:    v.Reason,
		VoidedBy:  v.VoidedByID.String(),
		Note:      v.Note,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
}
