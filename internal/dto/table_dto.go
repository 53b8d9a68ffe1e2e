package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type CreateTableRequest struct {
	Name     *string `json:"name"`
	Capacity int     `json:"capacity" validate:"required,oneof=4 6 8"`
}

type OpenTableRequest struct {
	TableID string `json:"table_id" validate:"required,uuid"`
}

// MergeTablesRequest merges the secondary table's check into the primary's.
// Callers pick the primary by convention (lower table number).
type MergeTablesRequest struct {
	PrimaryTableID   string `json:"primary_table_id"   validate:"required,uuid"`
	SecondaryTableID string `json:"secondary_table_id" validate:"required,uuid"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type TableResponse struct {
	ID             string  `json:"id"`
	Number         int     `json:"number"`
	Name           *string `json:"name,omitempty"`
	Capacity       int     `json:"capacity"`
	Status         string  `json:"status"`
	CurrentCheckID *string `json:"current_check_id,omitempty"`
}

type CheckResponse struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	TableIDs []string        `json:"table_ids"` // position order; first = primary
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	OpenedBy string          `json:"opened_by"`
	Orders   []OrderResponse `json:"orders,omitempty"`
	ClosedAt *string         `json:"closed_at,omitempty"`
	CreatedAt string         `json:"created_at"`
}
