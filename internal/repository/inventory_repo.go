package repository

import (
	"context"
	"errors"

	"github.com/JorgeKerilima19/app-management-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryTxFilter defines filters for listing inventory transactions.
type InventoryTxFilter struct {
	InventoryItemID *uuid.UUID
	Type            string
	Page            int
	Limit           int
}

type InventoryRepository interface {
	CreateItem(ctx context.Context, it *model.InventoryItem) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindItemByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.InventoryItem, error)
	ListItems(ctx context.Context) ([]model.InventoryItem, error)
	// AdjustQuantityTx applies an atomic delta to current_quantity. There is
	// no floor: stock may go negative, the ledger flags it afterwards.
	AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	CreateTransactionTx(tx *gorm.DB, m *model.InventoryTransaction) error
	// HasSaleDeductionTx is the idempotency guard read: true when a
	// SALE_DEDUCTION row for this order item already exists.
	HasSaleDeductionTx(tx *gorm.DB, orderItemID uuid.UUID) (bool, error)
	ListTransactions(ctx context.Context, filter InventoryTxFilter) ([]model.InventoryTransaction, int64, error)
	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) DB() *gorm.DB { return r.db }

func (r *inventoryRepo) CreateItem(ctx context.Context, it *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *inventoryRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var it model.InventoryItem
	err := r.db.WithContext(ctx).First(&it, id).Error
	return &it, err
}

func (r *inventoryRepo) FindItemByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.InventoryItem, error) {
	var it model.InventoryItem
	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&it, id).Error
	return &it, err
}

func (r *inventoryRepo) ListItems(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.InventoryItem{}).Where("id = ?", id).
		Update("current_quantity", gorm.Expr("current_quantity + ?", delta)).Error
}

func (r *inventoryRepo) CreateTransactionTx(tx *gorm.DB, m *model.InventoryTransaction) error {
	return tx.Create(m).Error
}

func (r *inventoryRepo) HasSaleDeductionTx(tx *gorm.DB, orderItemID uuid.UUID) (bool, error) {
	var guard model.InventoryTransaction
	err := tx.Select("id").
		Where("reference_model = ? AND reference_id = ? AND type = ?",
			model.RefOrderItem, orderItemID, model.TxSaleDeduction).
		First(&guard).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *inventoryRepo) ListTransactions(ctx context.Context, filter InventoryTxFilter) ([]model.InventoryTransaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryTransaction{}).
		Preload("InventoryItem")
	if filter.InventoryItemID != nil {
		q = q.Where("inventory_item_id = ?", *filter.InventoryItemID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var txs []model.InventoryTransaction
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&txs).Error
	return txs, total, err
}
