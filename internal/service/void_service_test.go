package service_test

import (
	"context"
	"testing"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoidItemFullQuantityRemovesLine(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, check := e.openTable(t)
	resp := e.addItem(t, table.ID, ceviche, 2)

	record, err := e.voidSvc.VoidItem(context.Background(), e.staffID, dto.VoidItemRequest{
		OrderItemID: resp.Items[0].ID,
		Quantity:    2,
		Reason:      "cliente se retiró",
	})
	require.NoError(t, err)
	assert.Equal(t, model.VoidTargetOrderItem, record.Target)

	items, err := e.orders.ListItemsByOrderTx(nil, mustUUID(t, resp.ID))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, e.checkTotal(t, check.ID).IsZero())
}

func TestVoidItemPartialDecrementsAndNotes(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, check := e.openTable(t)
	resp := e.addItem(t, table.ID, ceviche, 3)

	record, err := e.voidSvc.VoidItem(context.Background(), e.staffID, dto.VoidItemRequest{
		OrderItemID: resp.Items[0].ID,
		Quantity:    1,
		Reason:      "plato devuelto",
	})
	require.NoError(t, err)
	require.NotNil(t, record.Note)
	assert.Equal(t, "anulación parcial: 1 de 3", *record.Note)

	item, err := e.orders.FindItemByIDTx(nil, mustUUID(t, resp.Items[0].ID), false)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, e.checkTotal(t, check.ID).Equal(dec("20.00")))
}

func TestVoidItemQuantityAboveLineRejected(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, _ := e.openTable(t)
	resp := e.addItem(t, table.ID, ceviche, 1)

	_, err := e.voidSvc.VoidItem(context.Background(), e.staffID, dto.VoidItemRequest{
		OrderItemID: resp.Items[0].ID,
		Quantity:    2,
		Reason:      "error de registro",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidationFailed, apierror.KindOf(err))
}

func TestVoidItemZeroQuantityRejected(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, _ := e.openTable(t)
	resp := e.addItem(t, table.ID, ceviche, 2)

	_, err := e.voidSvc.VoidItem(context.Background(), e.staffID, dto.VoidItemRequest{
		OrderItemID: resp.Items[0].ID,
		Quantity:    0,
		Reason:      "error de registro",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidationFailed, apierror.KindOf(err))
	assert.Empty(t, e.voids.records)
}

func TestVoidReadyItemKeepsInventoryDeducted(t *testing.T) {
	e := newEnv()
	fish := e.inventory.seed("Pescado", dec("5.000"), nil)
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	e.menu.addRecipeLine(ceviche.ID, fish.ID, dec("0.250"), false)

	table, _ := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 1)
	res := e.send(t, table.ID)
	items, err := e.orders.ListItemsByOrderTx(nil, mustUUID(t, res.OrderID))
	require.NoError(t, err)
	_, err = e.pipeline.MarkItemReady(context.Background(), items[0].ID)
	require.NoError(t, err)
	require.True(t, fish.CurrentQuantity.Equal(dec("4.750")))

	_, err = e.voidSvc.VoidItem(context.Background(), e.staffID, dto.VoidItemRequest{
		OrderItemID: items[0].ID.String(),
		Quantity:    1,
		Reason:      "plato frío",
	})
	require.NoError(t, err)

	// write-off: the consumed stock is not restored
	assert.True(t, fish.CurrentQuantity.Equal(dec("4.750")))
	assert.Len(t, e.inventory.txs, 1)
}

func TestVoidPendingOrderCreatesReplacement(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, check := e.openTable(t)
	resp := e.addItem(t, table.ID, ceviche, 1)

	record, err := e.voidSvc.VoidOrder(context.Background(), e.staffID, dto.VoidOrderRequest{
		OrderID: resp.ID,
		Reason:  "pedido equivocado",
	})
	require.NoError(t, err)
	assert.Equal(t, model.VoidTargetOrder, record.Target)

	voided, err := e.orders.FindByIDTx(nil, mustUUID(t, resp.ID), false)
	require.NoError(t, err)
	assert.Equal(t, model.OrderVoided, voided.Status)

	fresh, err := e.orders.FindPendingByCheckTx(nil, mustUUID(t, check.ID))
	require.NoError(t, err)
	assert.NotEqual(t, voided.ID, fresh.ID)

	assert.True(t, e.checkTotal(t, check.ID).IsZero())
}

func TestVoidSentOrderDropsItsItemsFromTotal(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	lomo := e.menu.seed("Lomo Saltado", dec("15.00"), model.StationKitchen)
	table, check := e.openTable(t)

	e.addItem(t, table.ID, ceviche, 1)
	res := e.send(t, table.ID)
	e.addItem(t, table.ID, lomo, 1)
	require.True(t, e.checkTotal(t, check.ID).Equal(dec("25.00")))

	_, err := e.voidSvc.VoidOrder(context.Background(), e.staffID, dto.VoidOrderRequest{
		OrderID: res.OrderID,
		Reason:  "cocina sin insumos",
	})
	require.NoError(t, err)
	assert.True(t, e.checkTotal(t, check.ID).Equal(dec("15.00")))
}

func TestVoidCheckFreesTables(t *testing.T) {
	e := newEnv()
	table, check := e.openTable(t)

	record, err := e.voidSvc.VoidCheck(context.Background(), e.staffID, dto.VoidCheckRequest{
		CheckID: check.ID,
		Reason:  "apertura por error",
	})
	require.NoError(t, err)
	assert.Equal(t, model.VoidTargetCheck, record.Target)

	c, err := e.checks.FindByIDTx(nil, mustUUID(t, check.ID), false)
	require.NoError(t, err)
	assert.Equal(t, model.CheckVoided, c.Status)
	assert.NotNil(t, c.ClosedAt)

	assert.Equal(t, model.TableAvailable, table.Status)
	assert.Nil(t, table.CurrentCheckID)
}

func TestVoidClosedCheckRejected(t *testing.T) {
	e := newEnv()
	_, check := e.openTable(t)
	_, err := e.voidSvc.VoidCheck(context.Background(), e.staffID, dto.VoidCheckRequest{
		CheckID: check.ID,
		Reason:  "apertura por error",
	})
	require.NoError(t, err)

	_, err = e.voidSvc.VoidCheck(context.Background(), e.staffID, dto.VoidCheckRequest{
		CheckID: check.ID,
		Reason:  "segunda anulación",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindPreconditionFailed, apierror.KindOf(err))
}

func TestListVoidsByTarget(t *testing.T) {
	e := newEnv()
	_, check := e.openTable(t)
	_, err := e.voidSvc.VoidCheck(context.Background(), e.staffID, dto.VoidCheckRequest{
		CheckID: check.ID,
		Reason:  "apertura por error",
	})
	require.NoError(t, err)

	rows, err := e.voidSvc.ListVoids(context.Background(), model.VoidTargetCheck, mustUUID(t, check.ID))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "apertura por error", rows[0].Reason)
	assert.Equal(t, e.staffID.String(), rows[0].VoidedBy)
}

func TestListVoidsUnknownTarget(t *testing.T) {
	e := newEnv()
	_, err := e.voidSvc.ListVoids(context.Background(), "MESA", uuid.New())
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidationFailed, apierror.KindOf(err))
}
