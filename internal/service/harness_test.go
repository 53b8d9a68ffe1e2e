package service_test

import (
	"context"
	"testing"

	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/model"
	"github.com/JorgeKerilima19/app-management-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// env wires every service against the in-memory stubs. The Redis-backed
// dispatcher is nil, so queue side effects are no-ops.
type env struct {
	tables    *stubTableRepo
	checks    *stubCheckRepo
	orders    *stubOrderRepo
	menu      *stubMenuRepo
	inventory *stubInventoryRepo
	payments  *stubPaymentRepo
	voids     *stubVoidRepo
	staff     *stubStaffRepo

	ledger     service.CheckLedger
	registry   service.TableRegistry
	pipeline   service.OrderPipeline
	invLedger  service.InventoryLedger
	reconciler service.PaymentReconciler
	voidSvc    service.VoidService

	staffID uuid.UUID
}

func newEnv() *env {
	menu := newStubMenuRepo()
	orders := newStubOrderRepo(menu)
	e := &env{
		tables:    newStubTableRepo(),
		checks:    newStubCheckRepo(orders),
		orders:    orders,
		menu:      menu,
		inventory: newStubInventoryRepo(),
		payments:  &stubPaymentRepo{},
		voids:     &stubVoidRepo{},
		staff:     newStubStaffRepo(),
		staffID:   uuid.New(),
	}
	e.ledger = service.NewCheckLedger(e.checks)
	e.registry = service.NewTableRegistry(e.tables, e.checks, e.orders, e.ledger)
	e.invLedger = service.NewInventoryLedger(e.inventory, e.menu, nil)
	e.pipeline = service.NewOrderPipeline(e.tables, e.checks, e.orders, e.menu, e.ledger, e.invLedger)
	e.reconciler = service.NewPaymentReconciler(e.checks, e.payments, e.tables, e.ledger, nil, decimal.Decimal{})
	e.voidSvc = service.NewVoidService(e.orders, e.checks, e.tables, e.voids, e.ledger)
	return e
}

func (e *env) openTable(t *testing.T) (*model.Table, *dto.CheckResponse) {
	t.Helper()
	table := e.tables.seed(4, model.TableAvailable)
	check, err := e.registry.OpenTable(context.Background(), e.staffID, table.ID)
	require.NoError(t, err)
	return table, check
}

func (e *env) addItem(t *testing.T, tableID uuid.UUID, mi *model.MenuItem, qty int) *dto.OrderResponse {
	t.Helper()
	resp, err := e.pipeline.AddItem(context.Background(), e.staffID, dto.AddItemRequest{
		TableID:    tableID.String(),
		MenuItemID: mi.ID.String(),
		Quantity:   qty,
	})
	require.NoError(t, err)
	return resp
}

func (e *env) send(t *testing.T, tableID uuid.UUID) *dto.SendResult {
	t.Helper()
	res, err := e.pipeline.SendToStations(context.Background(), e.staffID, tableID)
	require.NoError(t, err)
	return res
}

func (e *env) readyAll(t *testing.T, orderID uuid.UUID) {
	t.Helper()
	items, err := e.orders.ListItemsByOrderTx(nil, orderID)
	require.NoError(t, err)
	for i := range items {
		_, err := e.pipeline.MarkItemReady(context.Background(), items[i].ID)
		require.NoError(t, err)
	}
}

func (e *env) checkTotal(t *testing.T, checkID string) decimal.Decimal {
	t.Helper()
	id, err := uuid.Parse(checkID)
	require.NoError(t, err)
	c, err := e.checks.FindByIDTx(nil, id, false)
	require.NoError(t, err)
	return c.Total
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
