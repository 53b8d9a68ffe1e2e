package repository

import (
	"context"

	"github.com/JorgeKerilima19/app-management-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TableRepository is the data access contract for floor tables.
// Status and current_check_id are only ever written through SetCurrentCheckTx,
// and only TableRegistry calls it.
type TableRepository interface {
	Create(ctx context.Context, t *model.Table) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Table, error)
	// FindByIDTx loads the table inside tx; forUpdate takes a row lock so two
	// concurrent opens/merges on the same table serialize.
	FindByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.Table, error)
	List(ctx context.Context) ([]model.Table, error)
	SetCurrentCheckTx(tx *gorm.DB, tableID uuid.UUID, checkID *uuid.UUID, status string) error
	// FreeTablesForCheckTx releases every table still pointing at the check.
	// Tables freed earlier (merge donors) are untouched.
	FreeTablesForCheckTx(tx *gorm.DB, checkID uuid.UUID) error
	NextNumber(ctx context.Context) (int, error)
	DB() *gorm.DB
}

type tableRepo struct{ db *gorm.DB }

func NewTableRepository(db *gorm.DB) TableRepository { return &tableRepo{db: db} }

func (r *tableRepo) DB() *gorm.DB { return r.db }

func (r *tableRepo) Create(ctx context.Context, t *model.Table) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tableRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tableRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.Table, error) {
	var t model.Table
	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&t, id).Error
	return &t, err
}

func (r *tableRepo) List(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).
		Preload("CurrentCheck").
		Order("number ASC").
		Find(&tables).Error
	return tables, err
}

func (r *tableRepo) SetCurrentCheckTx(tx *gorm.DB, tableID uuid.UUID, checkID *uuid.UUID, status string) error {
	return tx.Model(&model.Table{}).Where("id = ?", tableID).Updates(map[string]interface{}{
		"current_check_id": checkID,
		"status":           status,
	}).Error
}

func (r *tableRepo) FreeTablesForCheckTx(tx *gorm.DB, checkID uuid.UUID) error {
	return tx.Model(&model.Table{}).
		Where("current_check_id = ?", checkID).
		Updates(map[string]interface{}{
			"current_check_id": nil,
			"status":           model.TableAvailable,
		}).Error
}

func (r *tableRepo) NextNumber(ctx context.Context) (int, error) {
	// Staff-assigned numbers auto-increment from the highest existing one.
	var num int
	err := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(number), 0) + 1 FROM tables").
		Scan(&num).Error
	return num, err
}
