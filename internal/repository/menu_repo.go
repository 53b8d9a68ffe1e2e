package repository

import (
	"context"

	"github.com/JorgeKerilima19/app-management-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuRepository serves the read-mostly catalog. Writes happen only through
// seeding; the services treat menu items and recipes as input data.
type MenuRepository interface {
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	FindItemByIDTx(tx *gorm.DB, id uuid.UUID) (*model.MenuItem, error)
	ListItems(ctx context.Context) ([]model.MenuItem, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	RecipeForTx(tx *gorm.DB, menuItemID uuid.UUID) ([]model.RecipeItem, error)
}

type menuRepo struct{ db *gorm.DB }

func NewMenuRepository(db *gorm.DB) MenuRepository { return &menuRepo{db: db} }

func (r *menuRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var mi model.MenuItem
	err := r.db.WithContext(ctx).Preload("Recipe").First(&mi, id).Error
	return &mi, err
}

func (r *menuRepo) FindItemByIDTx(tx *gorm.DB, id uuid.UUID) (*model.MenuItem, error) {
	var mi model.MenuItem
	err := tx.First(&mi, id).Error
	return &mi, err
}

func (r *menuRepo) ListItems(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("active = true").
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *menuRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&cats).Error
	return cats, err
}

func (r *menuRepo) RecipeForTx(tx *gorm.DB, menuItemID uuid.UUID) ([]model.RecipeItem, error) {
	var recipe []model.RecipeItem
	err := tx.Where("menu_item_id = ?", menuItemID).Find(&recipe).Error
	return recipe, err
}
