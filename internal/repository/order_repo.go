package repository

import (
	"context"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.Order, error)
	// FindPendingByCheckTx returns the check's single PENDING order, locked
	// FOR UPDATE so concurrent AddItem calls on the same check serialize.
	FindPendingByCheckTx(tx *gorm.DB, checkID uuid.UUID) (*model.Order, error)
	// MoveToCheckTx reassigns every order of fromCheck to toCheck (merge).
	MoveToCheckTx(tx *gorm.DB, fromCheckID, toCheckID uuid.UUID) error
	// MoveItemsToOrderTx reparents all items of one order onto another. Used
	// by merge to collapse two PENDING orders into one before orders move.
	MoveItemsToOrderTx(tx *gorm.DB, fromOrderID, toOrderID uuid.UUID) error
	DeleteTx(tx *gorm.DB, orderID uuid.UUID) error
	UpdateStatusTx(tx *gorm.DB, orderID uuid.UUID, status string) error
	MarkSentTx(tx *gorm.DB, orderID uuid.UUID, kitchenAt, barAt *time.Time) error
	TouchTx(tx *gorm.DB, orderID uuid.UUID) error

	CreateItemTx(tx *gorm.DB, it *model.OrderItem) error
	FindItemByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.OrderItem, error)
	FindItemByMenuTx(tx *gorm.DB, orderID, menuItemID uuid.UUID) (*model.OrderItem, error)
	UpdateItemQuantityTx(tx *gorm.DB, itemID uuid.UUID, quantity int) error
	UpdateItemNotesTx(tx *gorm.DB, itemID uuid.UUID, notes *string) error
	UpdateItemStatusTx(tx *gorm.DB, itemID uuid.UUID, status string) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	ListItemsByOrderTx(tx *gorm.DB, orderID uuid.UUID) ([]model.OrderItem, error)

	// ListStationItems is the kitchen/bar board projection: PENDING/PREPARING
	// items of SENT orders routed to the given station.
	ListStationItems(ctx context.Context, station string) ([]model.OrderItem, error)
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.Order, error) {
	var o model.Order
	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&o, id).Error
	return &o, err
}

func (r *orderRepo) FindPendingByCheckTx(tx *gorm.DB, checkID uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("check_id = ? AND status = ?", checkID, model.OrderPending).
		First(&o).Error
	return &o, err
}

func (r *orderRepo) MoveToCheckTx(tx *gorm.DB, fromCheckID, toCheckID uuid.UUID) error {
	return tx.Model(&model.Order{}).
		Where("check_id = ?", fromCheckID).
		Update("check_id", toCheckID).Error
}

func (r *orderRepo) MoveItemsToOrderTx(tx *gorm.DB, fromOrderID, toOrderID uuid.UUID) error {
	return tx.Model(&model.OrderItem{}).
		Where("order_id = ?", fromOrderID).
		Update("order_id", toOrderID).Error
}

func (r *orderRepo) DeleteTx(tx *gorm.DB, orderID uuid.UUID) error {
	return tx.Delete(&model.Order{}, orderID).Error
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, orderID uuid.UUID, status string) error {
	return tx.Model(&model.Order{}).Where("id = ?", orderID).Update("status", status).Error
}

func (r *orderRepo) MarkSentTx(tx *gorm.DB, orderID uuid.UUID, kitchenAt, barAt *time.Time) error {
	return tx.Model(&model.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"status":             model.OrderSent,
		"sent_to_kitchen_at": kitchenAt,
		"sent_to_bar_at":     barAt,
	}).Error
}

func (r *orderRepo) TouchTx(tx *gorm.DB, orderID uuid.UUID) error {
	return tx.Model(&model.Order{}).Where("id = ?", orderID).
		Update("updated_at", time.Now()).Error
}

func (r *orderRepo) CreateItemTx(tx *gorm.DB, it *model.OrderItem) error {
	return tx.Create(it).Error
}

func (r *orderRepo) FindItemByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.OrderItem, error) {
	var it model.OrderItem
	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&it, id).Error
	return &it, err
}

func (r *orderRepo) FindItemByMenuTx(tx *gorm.DB, orderID, menuItemID uuid.UUID) (*model.OrderItem, error) {
	var it model.OrderItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND menu_item_id = ?", orderID, menuItemID).
		First(&it).Error
	return &it, err
}

func (r *orderRepo) UpdateItemQuantityTx(tx *gorm.DB, itemID uuid.UUID, quantity int) error {
	return tx.Model(&model.OrderItem{}).Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *orderRepo) UpdateItemNotesTx(tx *gorm.DB, itemID uuid.UUID, notes *string) error {
	return tx.Model(&model.OrderItem{}).Where("id = ?", itemID).
		Update("notes", notes).Error
}

func (r *orderRepo) UpdateItemStatusTx(tx *gorm.DB, itemID uuid.UUID, status string) error {
	return tx.Model(&model.OrderItem{}).Where("id = ?", itemID).
		Update("status", status).Error
}

func (r *orderRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.OrderItem{}, itemID).Error
}

func (r *orderRepo) ListItemsByOrderTx(tx *gorm.DB, orderID uuid.UUID) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := tx.Preload("MenuItem").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *orderRepo) ListStationItems(ctx context.Context, station string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Preload("MenuItem").
		Preload("Order").
		Joins("JOIN orders o ON o.id = order_items.order_id").
		Joins("JOIN menu_items mi ON mi.id = order_items.menu_item_id").
		Where("o.status = ?", model.OrderSent).
		Where("order_items.status IN ?", []string{model.ItemPending, model.ItemPreparing}).
		Where("mi.station = ?", station).
		Order("order_items.created_at ASC").
		Find(&items).Error
	return items, err
}
