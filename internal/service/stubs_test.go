package service_test

import (
	"context"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/model"
	"github.com/JorgeKerilima19/app-management-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Services run with a nil *gorm.DB, so every Tx
// method ignores its tx argument and mutates the maps directly.

// ── tables ───────────────────────────────────────────────────────────────────

type stubTableRepo struct {
	tables map[uuid.UUID]*model.Table
}

func newStubTableRepo() *stubTableRepo {
	return &stubTableRepo{tables: make(map[uuid.UUID]*model.Table)}
}

func (r *stubTableRepo) seed(capacity int, status string) *model.Table {
	t := &model.Table{ID: uuid.New(), Number: len(r.tables) + 1, Capacity: capacity, Status: status}
	r.tables[t.ID] = t
	return t
}

func (r *stubTableRepo) Create(_ context.Context, t *model.Table) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tables[t.ID] = t
	return nil
}

func (r *stubTableRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Table, error) {
	t, ok := r.tables[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTableRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID, _ bool) (*model.Table, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubTableRepo) List(_ context.Context) ([]model.Table, error) {
	out := make([]model.Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubTableRepo) SetCurrentCheckTx(_ *gorm.DB, tableID uuid.UUID, checkID *uuid.UUID, status string) error {
	t, ok := r.tables[tableID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.CurrentCheckID = checkID
	t.Status = status
	return nil
}

func (r *stubTableRepo) FreeTablesForCheckTx(_ *gorm.DB, checkID uuid.UUID) error {
	for _, t := range r.tables {
		if t.CurrentCheckID != nil && *t.CurrentCheckID == checkID {
			t.CurrentCheckID = nil
			t.Status = model.TableAvailable
		}
	}
	return nil
}

func (r *stubTableRepo) NextNumber(_ context.Context) (int, error) { return len(r.tables) + 1, nil }

func (r *stubTableRepo) DB() *gorm.DB { return nil }

var _ repository.TableRepository = (*stubTableRepo)(nil)

// ── orders ───────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders []*model.Order
	items  []*model.OrderItem
	menu   *stubMenuRepo // for preloading MenuItem on items
}

func newStubOrderRepo(menu *stubMenuRepo) *stubOrderRepo {
	return &stubOrderRepo{menu: menu}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.Status == model.OrderPending {
		for _, other := range r.orders {
			if other.CheckID == o.CheckID && other.Status == model.OrderPending {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	r.orders = append(r.orders, o)
	return nil
}

func (r *stubOrderRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID, _ bool) (*model.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) FindPendingByCheckTx(_ *gorm.DB, checkID uuid.UUID) (*model.Order, error) {
	for _, o := range r.orders {
		if o.CheckID == checkID && o.Status == model.OrderPending {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) MoveToCheckTx(_ *gorm.DB, fromCheckID, toCheckID uuid.UUID) error {
	for _, o := range r.orders {
		if o.CheckID == fromCheckID {
			o.CheckID = toCheckID
		}
	}
	return nil
}

func (r *stubOrderRepo) MoveItemsToOrderTx(_ *gorm.DB, fromOrderID, toOrderID uuid.UUID) error {
	for _, it := range r.items {
		if it.OrderID == fromOrderID {
			it.OrderID = toOrderID
		}
	}
	return nil
}

func (r *stubOrderRepo) DeleteTx(_ *gorm.DB, orderID uuid.UUID) error {
	for i, o := range r.orders {
		if o.ID == orderID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, orderID uuid.UUID, status string) error {
	o, err := r.FindByIDTx(nil, orderID, false)
	if err != nil {
		return err
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) MarkSentTx(_ *gorm.DB, orderID uuid.UUID, kitchenAt, barAt *time.Time) error {
	o, err := r.FindByIDTx(nil, orderID, false)
	if err != nil {
		return err
	}
	o.Status = model.OrderSent
	o.SentToKitchenAt = kitchenAt
	o.SentToBarAt = barAt
	return nil
}

func (r *stubOrderRepo) TouchTx(_ *gorm.DB, orderID uuid.UUID) error {
	o, err := r.FindByIDTx(nil, orderID, false)
	if err != nil {
		return err
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (r *stubOrderRepo) CreateItemTx(_ *gorm.DB, it *model.OrderItem) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	it.CreatedAt = time.Now()
	r.items = append(r.items, it)
	return nil
}

func (r *stubOrderRepo) FindItemByIDTx(_ *gorm.DB, id uuid.UUID, _ bool) (*model.OrderItem, error) {
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) FindItemByMenuTx(_ *gorm.DB, orderID, menuItemID uuid.UUID) (*model.OrderItem, error) {
	for _, it := range r.items {
		if it.OrderID == orderID && it.MenuItemID == menuItemID {
			return it, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) UpdateItemQuantityTx(_ *gorm.DB, itemID uuid.UUID, quantity int) error {
	it, err := r.FindItemByIDTx(nil, itemID, false)
	if err != nil {
		return err
	}
	it.Quantity = quantity
	return nil
}

func (r *stubOrderRepo) UpdateItemNotesTx(_ *gorm.DB, itemID uuid.UUID, notes *string) error {
	it, err := r.FindItemByIDTx(nil, itemID, false)
	if err != nil {
		return err
	}
	it.Notes = notes
	return nil
}

func (r *stubOrderRepo) UpdateItemStatusTx(_ *gorm.DB, itemID uuid.UUID, status string) error {
	it, err := r.FindItemByIDTx(nil, itemID, false)
	if err != nil {
		return err
	}
	it.Status = status
	return nil
}

func (r *stubOrderRepo) DeleteItemTx(_ *gorm.DB, itemID uuid.UUID) error {
	for i, it := range r.items {
		if it.ID == itemID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) ListItemsByOrderTx(_ *gorm.DB, orderID uuid.UUID) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for _, it := range r.items {
		if it.OrderID != orderID {
			continue
		}
		copied := *it
		if r.menu != nil {
			if mi, ok := r.menu.byID[it.MenuItemID]; ok {
				copied.MenuItem = mi
			}
		}
		out = append(out, copied)
	}
	return out, nil
}

func (r *stubOrderRepo) ListStationItems(_ context.Context, station string) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for _, it := range r.items {
		o, err := r.FindByIDTx(nil, it.OrderID, false)
		if err != nil || o.Status != model.OrderSent {
			continue
		}
		if it.Status != model.ItemPending && it.Status != model.ItemPreparing {
			continue
		}
		mi, ok := r.menu.byID[it.MenuItemID]
		if !ok || mi.Station != station {
			continue
		}
		copied := *it
		copied.MenuItem = mi
		copied.Order = o
		out = append(out, copied)
	}
	return out, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── checks ───────────────────────────────────────────────────────────────────

type stubCheckRepo struct {
	checks      map[uuid.UUID]*model.Check
	checkTables []*model.CheckTable
	orders      *stubOrderRepo
}

func newStubCheckRepo(orders *stubOrderRepo) *stubCheckRepo {
	return &stubCheckRepo{checks: make(map[uuid.UUID]*model.Check), orders: orders}
}

func (r *stubCheckRepo) CreateTx(_ *gorm.DB, c *model.Check) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = model.CheckOpen
	}
	c.CreatedAt = time.Now()
	r.checks[c.ID] = c
	return nil
}

func (r *stubCheckRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Check, error) {
	c, ok := r.checks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// assemble the preloads the real repo does
	copied := *c
	copied.Tables = nil
	for _, ct := range r.checkTables {
		if ct.CheckID == id {
			copied.Tables = append(copied.Tables, *ct)
		}
	}
	copied.Orders = nil
	for _, o := range r.orders.orders {
		if o.CheckID != id {
			continue
		}
		oc := *o
		items, _ := r.orders.ListItemsByOrderTx(nil, o.ID)
		oc.Items = items
		copied.Orders = append(copied.Orders, oc)
	}
	return &copied, nil
}

func (r *stubCheckRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID, _ bool) (*model.Check, error) {
	c, ok := r.checks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCheckRepo) AddTableTx(_ *gorm.DB, ct *model.CheckTable) error {
	if ct.ID == uuid.Nil {
		ct.ID = uuid.New()
	}
	r.checkTables = append(r.checkTables, ct)
	return nil
}

func (r *stubCheckRepo) TablesTx(_ *gorm.DB, checkID uuid.UUID) ([]model.CheckTable, error) {
	var out []model.CheckTable
	for _, ct := range r.checkTables {
		if ct.CheckID == checkID {
			out = append(out, *ct)
		}
	}
	return out, nil
}

func (r *stubCheckRepo) SumLiveItemsTx(_ *gorm.DB, checkID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, o := range r.orders.orders {
		if o.CheckID != checkID || o.Status == model.OrderVoided {
			continue
		}
		for _, it := range r.orders.items {
			if it.OrderID != o.ID || it.Status == model.ItemVoided {
				continue
			}
			sum = sum.Add(it.PriceAtOrder.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return sum, nil
}

func (r *stubCheckRepo) UpdateTotalsTx(_ *gorm.DB, checkID uuid.UUID, subtotal, tax, discount, total decimal.Decimal) error {
	c, ok := r.checks[checkID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Subtotal, c.Tax, c.Discount, c.Total = subtotal, tax, discount, total
	return nil
}

func (r *stubCheckRepo) CloseTx(_ *gorm.DB, checkID uuid.UUID, status string, closedAt time.Time) error {
	c, ok := r.checks[checkID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	c.ClosedAt = &closedAt
	return nil
}

func (r *stubCheckRepo) LiveItemStatsTx(_ *gorm.DB, checkID uuid.UUID) (repository.LiveItemStats, error) {
	var stats repository.LiveItemStats
	for _, o := range r.orders.orders {
		if o.CheckID != checkID || o.Status == model.OrderVoided {
			continue
		}
		for _, it := range r.orders.items {
			if it.OrderID != o.ID || it.Status == model.ItemVoided {
				continue
			}
			stats.Live++
			if it.Status != model.ItemReady {
				stats.Unready++
			}
		}
	}
	return stats, nil
}

func (r *stubCheckRepo) DB() *gorm.DB { return nil }

var _ repository.CheckRepository = (*stubCheckRepo)(nil)

// ── menu ─────────────────────────────────────────────────────────────────────

type stubMenuRepo struct {
	byID    map[uuid.UUID]*model.MenuItem
	recipes map[uuid.UUID][]model.RecipeItem
}

func newStubMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{
		byID:    make(map[uuid.UUID]*model.MenuItem),
		recipes: make(map[uuid.UUID][]model.RecipeItem),
	}
}

func (r *stubMenuRepo) seed(name string, price decimal.Decimal, station string) *model.MenuItem {
	mi := &model.MenuItem{ID: uuid.New(), Name: name, Price: price, Station: station, Active: true}
	r.byID[mi.ID] = mi
	return mi
}

func (r *stubMenuRepo) addRecipeLine(menuItemID, inventoryItemID uuid.UUID, qty decimal.Decimal, optional bool) {
	r.recipes[menuItemID] = append(r.recipes[menuItemID], model.RecipeItem{
		ID:               uuid.New(),
		MenuItemID:       menuItemID,
		InventoryItemID:  inventoryItemID,
		QuantityRequired: qty,
		IsOptional:       optional,
	})
}

func (r *stubMenuRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.MenuItem, error) {
	mi, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *mi
	copied.Recipe = r.recipes[id]
	return &copied, nil
}

func (r *stubMenuRepo) FindItemByIDTx(_ *gorm.DB, id uuid.UUID) (*model.MenuItem, error) {
	return r.FindItemByID(context.Background(), id)
}

func (r *stubMenuRepo) ListItems(_ context.Context) ([]model.MenuItem, error) {
	var out []model.MenuItem
	for _, mi := range r.byID {
		if mi.Active {
			out = append(out, *mi)
		}
	}
	return out, nil
}

func (r *stubMenuRepo) ListCategories(_ context.Context) ([]model.Category, error) {
	return nil, nil
}

func (r *stubMenuRepo) RecipeForTx(_ *gorm.DB, menuItemID uuid.UUID) ([]model.RecipeItem, error) {
	return r.recipes[menuItemID], nil
}

var _ repository.MenuRepository = (*stubMenuRepo)(nil)

// ── inventory ────────────────────────────────────────────────────────────────

type stubInventoryRepo struct {
	byID map[uuid.UUID]*model.InventoryItem
	txs  []*model.InventoryTransaction

	// guardReadMisses simulates the race window where a concurrent
	// transaction committed its deduction after our guard read: the read
	// reports nothing and the unique index must catch the duplicate.
	guardReadMisses bool
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{byID: make(map[uuid.UUID]*model.InventoryItem)}
}

func (r *stubInventoryRepo) seed(name string, qty decimal.Decimal, threshold *decimal.Decimal) *model.InventoryItem {
	it := &model.InventoryItem{
		ID:                uuid.New(),
		Name:              name,
		CurrentQuantity:   qty,
		Unit:              "unidad",
		LowStockThreshold: threshold,
	}
	r.byID[it.ID] = it
	return it
}

func (r *stubInventoryRepo) CreateItem(_ context.Context, it *model.InventoryItem) error {
	for _, existing := range r.byID {
		if existing.Name == it.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	r.byID[it.ID] = it
	return nil
}

func (r *stubInventoryRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	it, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return it, nil
}

func (r *stubInventoryRepo) FindItemByIDTx(_ *gorm.DB, id uuid.UUID, _ bool) (*model.InventoryItem, error) {
	it, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *it
	return &copied, nil
}

func (r *stubInventoryRepo) ListItems(_ context.Context) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, it := range r.byID {
		out = append(out, *it)
	}
	return out, nil
}

func (r *stubInventoryRepo) AdjustQuantityTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	it, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.CurrentQuantity = it.CurrentQuantity.Add(delta)
	return nil
}

func (r *stubInventoryRepo) CreateTransactionTx(_ *gorm.DB, m *model.InventoryTransaction) error {
	// mirror the partial unique guard index
	if m.Type == model.TxSaleDeduction {
		for _, existing := range r.txs {
			if existing.Type == model.TxSaleDeduction &&
				existing.InventoryItemID == m.InventoryItemID &&
				existing.ReferenceModel == m.ReferenceModel &&
				existing.ReferenceID == m.ReferenceID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.txs = append(r.txs, m)
	return nil
}

func (r *stubInventoryRepo) HasSaleDeductionTx(_ *gorm.DB, orderItemID uuid.UUID) (bool, error) {
	if r.guardReadMisses {
		return false, nil
	}
	for _, m := range r.txs {
		if m.Type == model.TxSaleDeduction && m.ReferenceModel == model.RefOrderItem && m.ReferenceID == orderItemID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubInventoryRepo) ListTransactions(_ context.Context, filter repository.InventoryTxFilter) ([]model.InventoryTransaction, int64, error) {
	var out []model.InventoryTransaction
	for _, m := range r.txs {
		if filter.InventoryItemID != nil && m.InventoryItemID != *filter.InventoryItemID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// ── payments / voids / staff ─────────────────────────────────────────────────

type stubPaymentRepo struct {
	payments []*model.Payment
}

func (r *stubPaymentRepo) CreateTx(_ *gorm.DB, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.payments = append(r.payments, p)
	return nil
}

func (r *stubPaymentRepo) ListByCheck(_ context.Context, checkID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.CheckID == checkID {
			out = append(out, *p)
		}
	}
	return out, nil
}

var _ repository.PaymentRepository = (*stubPaymentRepo)(nil)

type stubVoidRepo struct {
	records []*model.VoidRecord
}

func (r *stubVoidRepo) CreateTx(_ *gorm.DB, v *model.VoidRecord) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.records = append(r.records, v)
	return nil
}

func (r *stubVoidRepo) ListByTarget(_ context.Context, target string, targetID uuid.UUID) ([]model.VoidRecord, error) {
	var out []model.VoidRecord
	for _, v := range r.records {
		if v.Target == target && v.TargetID == targetID {
			out = append(out, *v)
		}
	}
	return out, nil
}

var _ repository.VoidRepository = (*stubVoidRepo)(nil)

type stubStaffRepo struct {
	byID map[uuid.UUID]*model.Staff
}

func newStubStaffRepo() *stubStaffRepo {
	return &stubStaffRepo{byID: make(map[uuid.UUID]*model.Staff)}
}

func (r *stubStaffRepo) Create(_ context.Context, s *model.Staff) error {
	for _, u := range r.byID {
		if u.Username == s.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.byID[s.ID] = s
	return nil
}

func (r *stubStaffRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Staff, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubStaffRepo) FindByUsername(_ context.Context, username string) (*model.Staff, error) {
	for _, s := range r.byID {
		if s.Username == username && s.Active {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubStaffRepo) List(_ context.Context) ([]model.Staff, error) {
	var out []model.Staff
	for _, s := range r.byID {
		if s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubStaffRepo) ListAll(_ context.Context) ([]model.Staff, error) {
	var out []model.Staff
	for _, s := range r.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubStaffRepo) Update(_ context.Context, s *model.Staff) error {
	r.byID[s.ID] = s
	return nil
}

func (r *stubStaffRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	s, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Active = false
	return nil
}

func (r *stubStaffRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	s, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Active = true
	return nil
}

var _ repository.StaffRepository = (*stubStaffRepo)(nil)
