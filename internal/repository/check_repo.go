package repository

import (
	"context"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LiveItemStats summarizes the payable state of a check's items: how many
// live (non-voided, in non-voided orders) item rows exist and how many of
// those are not yet READY.
type LiveItemStats struct {
	Live    int64
	Unready int64
}

type CheckRepository interface {
	CreateTx(tx *gorm.DB, c *model.Check) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Check, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.Check, error)
	AddTableTx(tx *gorm.DB, ct *model.CheckTable) error
	TablesTx(tx *gorm.DB, checkID uuid.UUID) ([]model.CheckTable, error)
	// SumLiveItemsTx computes Σ(price_at_order × quantity) over non-voided
	// items of non-voided orders, in SQL decimal arithmetic.
	SumLiveItemsTx(tx *gorm.DB, checkID uuid.UUID) (decimal.Decimal, error)
	UpdateTotalsTx(tx *gorm.DB, checkID uuid.UUID, subtotal, tax, discount, total decimal.Decimal) error
	CloseTx(tx *gorm.DB, checkID uuid.UUID, status string, closedAt time.Time) error
	LiveItemStatsTx(tx *gorm.DB, checkID uuid.UUID) (LiveItemStats, error)
	DB() *gorm.DB
}

type checkRepo struct{ db *gorm.DB }

func NewCheckRepository(db *gorm.DB) CheckRepository { return &checkRepo{db: db} }

func (r *checkRepo) DB() *gorm.DB { return r.db }

func (r *checkRepo) CreateTx(tx *gorm.DB, c *model.Check) error {
	return tx.Create(c).Error
}

func (r *checkRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Check, error) {
	var c model.Check
	err := r.db.WithContext(ctx).
		Preload("Tables", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Tables.Table").
		Preload("Orders.Items.MenuItem").
		First(&c, id).Error
	return &c, err
}

func (r *checkRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.Check, error) {
	var c model.Check
	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&c, id).Error
	return &c, err
}

func (r *checkRepo) AddTableTx(tx *gorm.DB, ct *model.CheckTable) error {
	return tx.Create(ct).Error
}

func (r *checkRepo) TablesTx(tx *gorm.DB, checkID uuid.UUID) ([]model.CheckTable, error) {
	var tables []model.CheckTable
	err := tx.Where("check_id = ?", checkID).Order("position ASC").Find(&tables).Error
	return tables, err
}

func (r *checkRepo) SumLiveItemsTx(tx *gorm.DB, checkID uuid.UUID) (decimal.Decimal, error) {
	// Decimal sum in SQL — never float — to avoid cent drift.
	var sum decimal.Decimal
	err := tx.Raw(`
		SELECT COALESCE(SUM(oi.price_at_order * oi.quantity), 0)
		  FROM order_items oi
		  JOIN orders o ON o.id = oi.order_id
		 WHERE o.check_id = ?
		   AND o.status <> 'VOIDED'
		   AND oi.status <> 'VOIDED'`, checkID).Scan(&sum).Error
	return sum, err
}

func (r *checkRepo) UpdateTotalsTx(tx *gorm.DB, checkID uuid.UUID, subtotal, tax, discount, total decimal.Decimal) error {
	return tx.Model(&model.Check{}).Where("id = ?", checkID).Updates(map[string]interface{}{
		"subtotal": subtotal,
		"tax":      tax,
		"discount": discount,
		"total":    total,
	}).Error
}

func (r *checkRepo) CloseTx(tx *gorm.DB, checkID uuid.UUID, status string, closedAt time.Time) error {
	return tx.Model(&model.Check{}).Where("id = ?", checkID).Updates(map[string]interface{}{
		"status":    status,
		"closed_at": closedAt,
	}).Error
}

func (r *checkRepo) LiveItemStatsTx(tx *gorm.DB, checkID uuid.UUID) (LiveItemStats, error) {
	var stats LiveItemStats
	err := tx.Raw(`
		SELECT COUNT(*) AS live,
		       COUNT(*) FILTER (WHERE oi.status <> 'READY') AS unready
		  FROM order_items oi
		  JOIN orders o ON o.id = oi.order_id
		 WHERE o.check_id = ?
		   AND o.status <> 'VOIDED'
		   AND oi.status <> 'VOIDED'`, checkID).Scan(&stats).Error
	return stats, err
}
