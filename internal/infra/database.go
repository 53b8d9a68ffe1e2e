package infra

import (
	"fmt"

	"github.com/JorgeKerilima19/app-management-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes, the deduction guard index).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Staff{},
		&model.Category{},
		&model.InventoryItem{},
		&model.MenuItem{},
		&model.RecipeItem{},
		&model.Table{},
		&model.Check{},
		&model.CheckTable{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryTransaction{},
		&model.Payment{},
		&model.VoidRecord{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS so reruns are safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// At most one PENDING order per check. AddItem's find-or-create relies
		// on this index to close the query-then-create race.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_one_pending_per_check
		   ON orders (check_id) WHERE status = 'PENDING'`,

		// Idempotency guard: a second SALE_DEDUCTION for the same order item
		// and ingredient fails at insert time and is treated as "already
		// deducted". One row per recipe line is still allowed.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_invtx_reference_guard
		   ON inventory_transactions (inventory_item_id, reference_model, reference_id, type)
		   WHERE type = 'SALE_DEDUCTION'`,
	}
	for _, p := range patches {
		if err := db.Exec(p).Error; err != nil {
			return err
		}
	}
	return nil
}
