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

// TableRegistry owns the table↔check binding. Status and current_check_id are
// written only here (and freed on close-out via FreeTablesForCheckTx), which
// keeps the invariant that an OCCUPIED table always points at an OPEN check.
type TableRegistry interface {
	CreateTable(ctx context.Context, req dto.CreateTableRequest) (*dto.TableResponse, error)
	ListTables(ctx context.Context) ([]dto.TableResponse, error)
	// OpenTable seats a party: AVAILABLE → OCCUPIED, a new OPEN check with an
	// empty PENDING order, table bound to the check.
	OpenTable(ctx context.Context, staffID, tableID uuid.UUID) (*dto.CheckResponse, error)
	// MergeTables folds the secondary table's check into the primary's: all
	// orders move, the donor check closes at zero, the donor table frees up.
	MergeTables(ctx context.Context, staffID, primaryID, secondaryID uuid.UUID) (*dto.CheckResponse, error)
}

type tableRegistry struct {
	tables repository.TableRepository
	checks repository.CheckRepository
	orders repository.OrderRepository
	ledger CheckLedger
}

func NewTableRegistry(
	tables repository.TableRepository,
	checks repository.CheckRepository,
	orders repository.OrderRepository,
	ledger CheckLedger,
) TableRegistry {
	return &tableRegistry{tables: tables, checks: checks, orders: orders, ledger: ledger}
}

func (s *tableRegistry) CreateTable(ctx context.Context, req dto.CreateTableRequest) (*dto.TableResponse, error) {
	num, err := s.tables.NextNumber(ctx)
	if err != nil {
		return nil, err
	}
	t := model.Table{
		Number:   num,
		Name:     req.Name,
		Capacity: req.Capacity,
		Status:   model.TableAvailable,
	}
	if err := s.tables.Create(ctx, &t); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("número de mesa ya asignado, reintente")
		}
		return nil, err
	}
	return tableToResponse(&t), nil
}

func (s *tableRegistry) ListTables(ctx context.Context) ([]dto.TableResponse, error) {
	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		out = append(out, *tableToResponse(&tables[i]))
	}
	return out, nil
}

func (s *tableRegistry) OpenTable(ctx context.Context, staffID, tableID uuid.UUID) (*dto.CheckResponse, error) {
	var check model.Check
	err := runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		t, err := s.tables.FindByIDTx(tx, tableID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("mesa no encontrada")
			}
			return err
		}
		if t.Status != model.TableAvailable {
			return apierror.PreconditionFailed("la mesa no está disponible")
		}

		check = model.Check{Status: model.CheckOpen, OpenedByID: staffID}
		if err := s.checks.CreateTx(tx, &check); err != nil {
			return err
		}
		if err := s.checks.AddTableTx(tx, &model.CheckTable{
			CheckID:  check.ID,
			TableID:  tableID,
			Position: 0,
		}); err != nil {
			return err
		}
		// Every open check carries exactly one PENDING order for new items.
		order := model.Order{CheckID: check.ID, Status: model.OrderPending, OrderedByID: staffID}
		if err := s.orders.CreateTx(tx, &order); err != nil {
			return err
		}

		checkID := check.ID
		return s.tables.SetCurrentCheckTx(tx, tableID, &checkID, model.TableOccupied)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("table_id", tableID.String()).
		Str("check_id", check.ID.String()).
		Str("staff_id", staffID.String()).
		Msg("table opened")

	return s.ledger.GetCheck(ctx, check.ID)
}

func (s *tableRegistry) MergeTables(ctx context.Context, staffID, primaryID, secondaryID uuid.UUID) (*dto.CheckResponse, error) {
	if primaryID == secondaryID {
		return nil, apierror.PreconditionFailed("no se puede unir una mesa consigo misma")
	}

	var primaryCheckID uuid.UUID
	err := runTx(ctx, s.tables.DB(), func(tx *gorm.DB) error {
		// Lock both tables in id order so two crossed merges cannot deadlock.
		firstID, secondID := primaryID, secondaryID
		if secondID.String() < firstID.String() {
			firstID, secondID = secondID, firstID
		}
		locked := map[uuid.UUID]*model.Table{}
		for _, id := range []uuid.UUID{firstID, secondID} {
			t, err := s.tables.FindByIDTx(tx, id, true)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.NotFound("mesa no encontrada")
				}
				return err
			}
			locked[id] = t
		}
		primary, secondary := locked[primaryID], locked[secondaryID]

		if primary.Status != model.TableOccupied || primary.CurrentCheckID == nil {
			return apierror.PreconditionFailed("la mesa principal no tiene una cuenta abierta")
		}
		if secondary.Status != model.TableOccupied || secondary.CurrentCheckID == nil {
			return apierror.PreconditionFailed("la mesa a unir no tiene una cuenta abierta")
		}
		if *primary.CurrentCheckID == *secondary.CurrentCheckID {
			return apierror.PreconditionFailed("las mesas ya comparten la misma cuenta")
		}

		target, err := s.checks.FindByIDTx(tx, *primary.CurrentCheckID, true)
		if err != nil {
			return err
		}
		donor, err := s.checks.FindByIDTx(tx, *secondary.CurrentCheckID, true)
		if err != nil {
			return err
		}
		if target.Status != model.CheckOpen || donor.Status != model.CheckOpen {
			return apierror.PreconditionFailed("solo se pueden unir cuentas abiertas")
		}

		// Both checks carry a PENDING order and the target may keep only one,
		// so the donor's pending items fold into the target's pending order
		// and the emptied donor order goes away before the wholesale move.
		donorPending, err := s.orders.FindPendingByCheckTx(tx, donor.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if donorPending != nil && err == nil {
			targetPending, terr := s.orders.FindPendingByCheckTx(tx, target.ID)
			if terr != nil && !errors.Is(terr, gorm.ErrRecordNotFound) {
				return terr
			}
			if terr == nil {
				if err := s.orders.MoveItemsToOrderTx(tx, donorPending.ID, targetPending.ID); err != nil {
					return err
				}
				if err := s.orders.DeleteTx(tx, donorPending.ID); err != nil {
					return err
				}
			}
		}

		// Remaining orders move wholesale; the price snapshots on their items
		// travel with them.
		if err := s.orders.MoveToCheckTx(tx, donor.ID, target.ID); err != nil {
			return err
		}
		if _, err := s.ledger.RecomputeTotalTx(tx, target.ID); err != nil {
			return err
		}

		// Donor check closes empty so its totals stay consistent.
		if _, err := s.ledger.RecomputeTotalTx(tx, donor.ID); err != nil {
			return err
		}
		if err := s.checks.CloseTx(tx, donor.ID, model.CheckClosed, time.Now()); err != nil {
			return err
		}
		if err := s.tables.SetCurrentCheckTx(tx, secondaryID, nil, model.TableAvailable); err != nil {
			return err
		}

		primaryCheckID = target.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("primary_table_id", primaryID.String()).
		Str("secondary_table_id", secondaryID.String()).
		Str("check_id", primaryCheckID.String()).
		Str("staff_id", staffID.String()).
		Msg("tables merged")

	return s.ledger.GetCheck(ctx, primaryCheckID)
}

func tableToResponse(t *model.Table) *dto.TableResponse {
	resp := &dto.TableResponse{
		ID:       t.ID.String(),
		Number:   t.Number,
		Name:     t.Name,
		Capacity: t.Capacity,
		Status:   t.Status,
	}
	if t.CurrentCheckID != nil {
		id := t.CurrentCheckID.String()
		resp.CurrentCheckID = &id
	}
	return resp
}
