package service_test

import (
	"context"
	"testing"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemSnapshotsPrice(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, check := e.openTable(t)

	resp := e.addItem(t, table.ID, ceviche, 1)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].PriceAtOrder.Equal(dec("10.00")))

	// a later menu price change never touches the open check
	ceviche.Price = dec("12.00")
	resp = e.addItem(t, table.ID, ceviche, 1)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.True(t, resp.Items[0].PriceAtOrder.Equal(dec("10.00")))

	assert.True(t, e.checkTotal(t, check.ID).Equal(dec("20.00")))
}

func TestAddItemCollapsesDuplicateLines(t *testing.T) {
	e := newEnv()
	lomo := e.menu.seed("Lomo Saltado", dec("15.00"), model.StationKitchen)
	table, check := e.openTable(t)

	e.addItem(t, table.ID, lomo, 2)
	resp := e.addItem(t, table.ID, lomo, 3)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.True(t, e.checkTotal(t, check.ID).Equal(dec("75.00")))
}

func TestAddItemInactiveMenuItemRejected(t *testing.T) {
	e := newEnv()
	mi := e.menu.seed("Plato Retirado", dec("9.00"), model.StationKitchen)
	mi.Active = false
	table, _ := e.openTable(t)

	_, err := e.pipeline.AddItem(context.Background(), e.staffID, dto.AddItemRequest{
		TableID:    table.ID.String(),
		MenuItemID: mi.ID.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindPreconditionFailed, apierror.KindOf(err))
}

func TestAddItemTableWithoutOpenCheck(t *testing.T) {
	e := newEnv()
	mi := e.menu.seed("Chicha", dec("5.00"), model.StationBar)
	free := e.tables.seed(4, model.TableAvailable)

	_, err := e.pipeline.AddItem(context.Background(), e.staffID, dto.AddItemRequest{
		TableID:    free.ID.String(),
		MenuItemID: mi.ID.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindPreconditionFailed, apierror.KindOf(err))
}

func TestRemoveItemDecrementsThenDeletes(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, check := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 2)

	req := dto.RemoveItemRequest{TableID: table.ID.String(), MenuItemID: ceviche.ID.String()}

	resp, err := e.pipeline.RemoveItem(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].Quantity)
	assert.True(t, e.checkTotal(t, check.ID).Equal(dec("10.00")))

	resp, err = e.pipeline.RemoveItem(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, e.checkTotal(t, check.ID).IsZero())
}

func TestRemoveItemAfterSendRejected(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, _ := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 1)
	e.send(t, table.ID)

	_, err := e.pipeline.RemoveItem(context.Background(), dto.RemoveItemRequest{
		TableID:    table.ID.String(),
		MenuItemID: ceviche.ID.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindPreconditionFailed, apierror.KindOf(err))
}

func TestUpdateNotesKeepsTotalCurrent(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, check := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 2)

	// a stale stored total gets repaired by any pending-order edit
	c, err := e.checks.FindByIDTx(nil, mustUUID(t, check.ID), false)
	require.NoError(t, err)
	c.Total = dec("99.00")

	resp, err := e.pipeline.UpdateNotes(context.Background(), dto.UpdateNotesRequest{
		TableID:    table.ID.String(),
		MenuItemID: ceviche.ID.String(),
		Notes:      "sin ají",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].Notes)
	assert.Equal(t, "sin ají", *resp.Items[0].Notes)
	assert.True(t, e.checkTotal(t, check.ID).Equal(dec("20.00")))
}

func TestUpdateNotesEmptyStringClears(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, _ := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 1)

	req := dto.UpdateNotesRequest{
		TableID:    table.ID.String(),
		MenuItemID: ceviche.ID.String(),
	}
	req.Notes = "sin cebolla"
	_, err := e.pipeline.UpdateNotes(context.Background(), req)
	require.NoError(t, err)

	req.Notes = ""
	resp, err := e.pipeline.UpdateNotes(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Nil(t, resp.Items[0].Notes)
}

func TestSendToStationsEmptyIsNoop(t *testing.T) {
	e := newEnv()
	table, _ := e.openTable(t)

	res := e.send(t, table.ID)
	assert.False(t, res.Sent)
}

func TestSendToStationsRoutesAndStartsNextRound(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	pisco := e.menu.seed("Pisco Sour", dec("18.00"), model.StationBar)
	table, check := e.openTable(t)

	e.addItem(t, table.ID, ceviche, 1)
	e.addItem(t, table.ID, pisco, 1)

	res := e.send(t, table.ID)
	assert.True(t, res.Sent)
	assert.True(t, res.HasKitchen)
	assert.True(t, res.HasBar)

	sent, err := e.orders.FindByIDTx(nil, mustUUID(t, res.OrderID), false)
	require.NoError(t, err)
	assert.Equal(t, model.OrderSent, sent.Status)
	assert.NotNil(t, sent.SentToKitchenAt)
	assert.NotNil(t, sent.SentToBarAt)

	// a fresh pending order is ready for the next round
	fresh, err := e.orders.FindPendingByCheckTx(nil, mustUUID(t, check.ID))
	require.NoError(t, err)
	assert.NotEqual(t, sent.ID, fresh.ID)
}

func TestSendKitchenOnlyLeavesBarTimestampNil(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, _ := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 1)

	res := e.send(t, table.ID)
	assert.True(t, res.HasKitchen)
	assert.False(t, res.HasBar)

	sent, err := e.orders.FindByIDTx(nil, mustUUID(t, res.OrderID), false)
	require.NoError(t, err)
	assert.Nil(t, sent.SentToBarAt)
}

func TestMarkItemPreparingOnlyFromPending(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	table, _ := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 1)
	res := e.send(t, table.ID)

	items, err := e.orders.ListItemsByOrderTx(nil, mustUUID(t, res.OrderID))
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, e.pipeline.MarkItemPreparing(context.Background(), items[0].ID))
	err = e.pipeline.MarkItemPreparing(context.Background(), items[0].ID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindPreconditionFailed, apierror.KindOf(err))
}

func TestMarkItemReadyDeductsRecipe(t *testing.T) {
	e := newEnv()
	fish := e.inventory.seed("Pescado", dec("5.000"), nil)
	lime := e.inventory.seed("Limón", dec("2.000"), nil)
	ice := e.inventory.seed("Hielo", dec("9.000"), nil)

	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	e.menu.addRecipeLine(ceviche.ID, fish.ID, dec("0.250"), false)
	e.menu.addRecipeLine(ceviche.ID, lime.ID, dec("0.100"), false)
	e.menu.addRecipeLine(ceviche.ID, ice.ID, dec("0.500"), true) // optional, never deducted

	table, _ := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 2)
	res := e.send(t, table.ID)

	items, err := e.orders.ListItemsByOrderTx(nil, mustUUID(t, res.OrderID))
	require.NoError(t, err)
	require.Len(t, items, 1)

	out, err := e.pipeline.MarkItemReady(context.Background(), items[0].ID)
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, 2, out.Lines)

	assert.True(t, fish.CurrentQuantity.Equal(dec("4.500")), "fish %s", fish.CurrentQuantity)
	assert.True(t, lime.CurrentQuantity.Equal(dec("1.800")), "lime %s", lime.CurrentQuantity)
	assert.True(t, ice.CurrentQuantity.Equal(dec("9.000")), "ice %s", ice.CurrentQuantity)

	// one SALE_DEDUCTION audit row per consumed ingredient
	assert.Len(t, e.inventory.txs, 2)
}

func TestMarkItemReadySecondCallSkips(t *testing.T) {
	e := newEnv()
	fish := e.inventory.seed("Pescado", dec("5.000"), nil)
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	e.menu.addRecipeLine(ceviche.ID, fish.ID, dec("0.250"), false)

	table, _ := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 1)
	res := e.send(t, table.ID)
	items, err := e.orders.ListItemsByOrderTx(nil, mustUUID(t, res.OrderID))
	require.NoError(t, err)

	first, err := e.pipeline.MarkItemReady(context.Background(), items[0].ID)
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := e.pipeline.MarkItemReady(context.Background(), items[0].ID)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, "already_deducted", second.Skipped)

	// stock moved exactly once
	assert.True(t, fish.CurrentQuantity.Equal(dec("4.750")))
	assert.Len(t, e.inventory.txs, 1)
}

func TestMarkItemReadyRacedDeductionReportsSkip(t *testing.T) {
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

	// now the guard read misses the committed row and only the unique index
	// stands between us and a double deduction
	e.inventory.guardReadMisses = true
	out, err := e.pipeline.MarkItemReady(context.Background(), items[0].ID)
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Equal(t, "already_deducted", out.Skipped)
	assert.Len(t, e.inventory.txs, 1)
}

func TestMarkItemReadyCompletesOrder(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	pisco := e.menu.seed("Pisco Sour", dec("18.00"), model.StationBar)

	table, _ := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 1)
	e.addItem(t, table.ID, pisco, 1)
	res := e.send(t, table.ID)

	items, err := e.orders.ListItemsByOrderTx(nil, mustUUID(t, res.OrderID))
	require.NoError(t, err)
	require.Len(t, items, 2)

	_, err = e.pipeline.MarkItemReady(context.Background(), items[0].ID)
	require.NoError(t, err)
	order, err := e.orders.FindByIDTx(nil, mustUUID(t, res.OrderID), false)
	require.NoError(t, err)
	assert.Equal(t, model.OrderSent, order.Status)

	_, err = e.pipeline.MarkItemReady(context.Background(), items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderReady, order.Status)
}

func TestListStationItemsFiltersByStation(t *testing.T) {
	e := newEnv()
	ceviche := e.menu.seed("Ceviche", dec("10.00"), model.StationKitchen)
	pisco := e.menu.seed("Pisco Sour", dec("18.00"), model.StationBar)

	table, _ := e.openTable(t)
	e.addItem(t, table.ID, ceviche, 1)
	e.addItem(t, table.ID, pisco, 1)
	e.send(t, table.ID)

	// staged items of the next round must stay off the board
	e.addItem(t, table.ID, ceviche, 1)

	kitchen, err := e.pipeline.ListStationItems(context.Background(), model.StationKitchen)
	require.NoError(t, err)
	require.Len(t, kitchen, 1)
	assert.Equal(t, "Ceviche", kitchen[0].MenuItem)

	bar, err := e.pipeline.ListStationItems(context.Background(), model.StationBar)
	require.NoError(t, err)
	require.Len(t, bar, 1)
	assert.Equal(t, "Pisco Sour", bar[0].MenuItem)
}

func TestListStationItemsUnknownStation(t *testing.T) {
	e := newEnv()
	_, err := e.pipeline.ListStationItems(context.Background(), "PATIO")
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidationFailed, apierror.KindOf(err))
}
