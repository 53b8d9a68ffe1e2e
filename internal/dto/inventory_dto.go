package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

// CreateInventoryItemRequest registers a new stock ingredient.
type CreateInventoryItemRequest struct {
	Name              string           `json:"name" validate:"required,min=2"`
	Unit              string           `json:"unit" validate:"required"`
	InitialQuantity   decimal.Decimal  `json:"initial_quantity"    validate:"min=0"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold" validate:"omitempty,min=0"`
	CostPerUnit       *decimal.Decimal `json:"cost_per_unit"       validate:"omitempty,min=0"`
}

// AdjustStockRequest applies a signed manual correction (spoilage, recount).
type AdjustStockRequest struct {
	InventoryItemID string          `json:"inventory_item_id" validate:"required,uuid"`
	Delta           decimal.Decimal `json:"delta"  validate:"required"`
	Reason          string          `json:"reason" validate:"required,min=3"`
}

// RestockRequest records a delivery; quantity must be positive.
type RestockRequest struct {
	InventoryItemID string          `json:"inventory_item_id" validate:"required,uuid"`
	Quantity        decimal.Decimal `json:"quantity" validate:"required"`
	Reason          string          `json:"reason"   validate:"required,min=3"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type InventoryItemResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	CurrentQuantity   decimal.Decimal  `json:"current_quantity"`
	Unit              string           `json:"unit"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	LowStock          bool             `json:"low_stock"`
}

type InventoryTxResponse struct {
	ID              string          `json:"id"`
	InventoryItem   string          `json:"inventory_item"`
	Type            string          `json:"type"`
	QuantityChange  decimal.Decimal `json:"quantity_change"`
	ReferenceModel  string          `json:"reference_model"`
	ReferenceID     string          `json:"reference_id"`
	Reason          string          `json:"reason"`
	CreatedAt       string          `json:"created_at"`
}

type InventoryTxListResponse struct {
	Data  []InventoryTxResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// DeductionResult reports the outcome of a recipe deduction. Skipped is empty
// when the deduction applied; "already_deducted" and "voided" are successful
// no-ops, not errors.
type DeductionResult struct {
	OrderItemID string `json:"order_item_id"`
	Applied     bool   `json:"applied"`
	Skipped     string `json:"skipped,omitempty"`
	Lines       int    `json:"lines"`
}
