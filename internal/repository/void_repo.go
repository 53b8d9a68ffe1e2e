package repository

import (
	"context"

	"github.com/JorgeKerilima19/app-management-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoidRepository persists the append-only cancellation audit trail.
// Records are never updated or deleted.
type VoidRepository interface {
	CreateTx(tx *gorm.DB, v *model.VoidRecord) error
	ListByTarget(ctx context.Context, target string, targetID uuid.UUID) ([]model.VoidRecord, error)
}

type voidRepo struct{ db *gorm.DB }

func NewVoidRepository(db *gorm.DB) VoidRepository { return &voidRepo{db: db} }

func (r *voidRepo) CreateTx(tx *gorm.DB, v *model.VoidRecord) error {
	return tx.Create(v).Error
}

func (r *voidRepo) ListByTarget(ctx context.Context, target string, targetID uuid.UUID) ([]model.VoidRecord, error) {
	var records []model.VoidRecord
	err := r.db.WithContext(ctx).
		Where("target = ? AND target_id = ?", target, targetID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
