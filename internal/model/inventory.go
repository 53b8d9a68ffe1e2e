package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryTransaction types.
const (
	TxSaleDeduction    = "SALE_DEDUCTION"
	TxManualAdjustment = "MANUAL_ADJUSTMENT"
	TxRestock          = "RESTOCK"
)

// Reference models for InventoryTransaction rows.
const (
	RefOrderItem = "OrderItem"
	RefStaff     = "Staff"
)

// InventoryItem is a stock ingredient. CurrentQuantity is mutated only through
// InventoryLedger transactions — no other code path decrements it. Stock may
// go negative; the ledger flags it instead of rejecting the deduction.
type InventoryItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string          `gorm:"uniqueIndex;not null"`
	CurrentQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Unit            string          `gorm:"not null;default:'unidad'"`
	LowStockThreshold *decimal.Decimal `gorm:"type:decimal(12,3)"`
	CostPerUnit       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// InventoryTransaction is the append-only audit row for every stock change.
// Rows are NEVER modified or deleted. The unique index on
// (inventory_item_id, reference_model, reference_id, type) is the idempotency
// guard that makes a second SALE_DEDUCTION for the same order item fail at
// insert time.
type InventoryTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type            string          `gorm:"type:varchar(30);not null"`
	QuantityChange  decimal.Decimal `gorm:"type:decimal(12,3);not null"` // positive = entrada, negative = salida
	ReferenceModel  string          `gorm:"type:varchar(30);not null"`
	ReferenceID     uuid.UUID       `gorm:"type:uuid;not null"`
	Reason          string          `gorm:"not null"`
	PerformedByID   *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt       time.Time

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID"`
}

func (InventoryTransaction) TableName() string { return "inventory_transactions" }
