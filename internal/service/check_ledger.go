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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckLedger owns every write to the money columns of a check. All other
// services mutate items and then call RecomputeTotalTx inside their own
// transaction, so a committed check total is never stale.
type CheckLedger interface {
	GetCheck(ctx context.Context, checkID uuid.UUID) (*dto.CheckResponse, error)
	RecomputeTotal(ctx context.Context, checkID uuid.UUID) (decimal.Decimal, error)
	// RecomputeTotalTx re-derives subtotal/total from live items and persists
	// all four money columns. Returns the new total.
	RecomputeTotalTx(tx *gorm.DB, checkID uuid.UUID) (decimal.Decimal, error)
}

type checkLedger struct {
	checks repository.CheckRepository
}

func NewCheckLedger(checks repository.CheckRepository) CheckLedger {
	return &checkLedger{checks: checks}
}

func (s *checkLedger) GetCheck(ctx context.Context, checkID uuid.UUID) (*dto.CheckResponse, error) {
	c, err := s.checks.FindByID(ctx, checkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("cuenta no encontrada")
		}
		return nil, err
	}
	return checkToResponse(c), nil
}

func (s *checkLedger) RecomputeTotal(ctx context.Context, checkID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := runTx(ctx, s.checks.DB(), func(tx *gorm.DB) error {
		var txErr error
		total, txErr = s.RecomputeTotalTx(tx, checkID)
		return txErr
	})
	return total, err
}

func (s *checkLedger) RecomputeTotalTx(tx *gorm.DB, checkID uuid.UUID) (decimal.Decimal, error) {
	subtotal, err := s.checks.SumLiveItemsTx(tx, checkID)
	if err != nil {
		return decimal.Zero, err
	}
	// Tax and discount are persisted as columns but are always zero today, so
	// total == subtotal. One write path keeps that true when they grow teeth.
	tax := decimal.Zero
	discount := decimal.Zero
	total := subtotal.Add(tax).Sub(discount)
	if err := s.checks.UpdateTotalsTx(tx, checkID, subtotal, tax, discount, total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// ── converters ────────────────────────────────────────────────────────────────

func checkToResponse(c *model.Check) *dto.CheckResponse {
	resp := &dto.CheckResponse{
		ID:        c.ID.String(),
		Status:    c.Status,
		TableIDs:  make([]string, 0, len(c.Tables)),
		Subtotal:  c.Subtotal,
		Tax:       c.Tax,
		Discount:  c.Discount,
		Total:     c.Total,
		OpenedBy:  c.OpenedByID.String(),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	for _, ct := range c.Tables {
		resp.TableIDs = append(resp.TableIDs, ct.TableID.String())
	}
	if c.ClosedAt != nil {
		closed := c.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	for i := range c.Orders {
		resp.Orders = append(resp.Orders, *orderToResponse(&c.Orders[i]))
	}
	return resp
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:      o.ID.String(),
		CheckID: o.CheckID.String(),
		Status:  o.Status,
		Items:   make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	if o.SentToKitchenAt != nil {
		t := o.SentToKitchenAt.Format(time.RFC3339)
		resp.SentToKitchenAt = &t
	}
	if o.SentToBarAt != nil {
		t := o.SentToBarAt.Format(time.RFC3339)
		resp.SentToBarAt = &t
	}
	for i := range o.Items {
		resp.Items = append(resp.Items, orderItemToResponse(&o.Items[i]))
	}
	return resp
}

func orderItemToResponse(it *model.OrderItem) dto.OrderItemResponse {
	r := dto.OrderItemResponse{
		ID:           it.ID.String(),
		MenuItemID:   it.MenuItemID.String(),
		Quantity:     it.Quantity,
		Notes:        it.Notes,
		PriceAtOrder: it.PriceAtOrder,
		Status:       it.Status,
	}
	if it.MenuItem != nil {
		r.MenuItem = it.MenuItem.Name
	}
	return r
}
