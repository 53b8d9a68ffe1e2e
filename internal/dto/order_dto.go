package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type AddItemRequest struct {
	TableID    string `json:"table_id"     validate:"required,uuid"`
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"     validate:"omitempty,min=1"`
	Notes      *string `json:"notes"`
}

type RemoveItemRequest struct {
	TableID    string `json:"table_id"     validate:"required,uuid"`
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
}

type UpdateNotesRequest struct {
	TableID    string `json:"table_id"     validate:"required,uuid"`
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Notes      string `json:"notes"        validate:"max=500"`
}

type SendToStationsRequest struct {
	TableID string `json:"table_id" validate:"required,uuid"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ID           string          `json:"id"`
	MenuItemID   string          `json:"menu_item_id"`
	MenuItem     string          `json:"menu_item,omitempty"`
	Quantity     int             `json:"quantity"`
	Notes        *string         `json:"notes,omitempty"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
	Status       string          `json:"status"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	CheckID         string              `json:"check_id"`
	Status          string              `json:"status"`
	SentToKitchenAt *string             `json:"sent_to_kitchen_at,omitempty"`
	SentToBarAt     *string             `json:"sent_to_bar_at,omitempty"`
	Items           []OrderItemResponse `json:"items"`
}

// SendResult reports what SendToStations routed. Sent=false means the pending
// order had no items and the call was an idempotent no-op.
type SendResult struct {
	Sent       bool   `json:"sent"`
	OrderID    string `json:"order_id,omitempty"`
	HasKitchen bool   `json:"has_kitchen"`
	HasBar     bool   `json:"has_bar"`
}

// StationItemResponse is one row of the kitchen/bar board.
type StationItemResponse struct {
	OrderItemID string  `json:"order_item_id"`
	OrderID     string  `json:"order_id"`
	MenuItem    string  `json:"menu_item"`
	Quantity    int     `json:"quantity"`
	Notes       *string `json:"notes,omitempty"`
	Status      string  `json:"status"`
	SentAt      *string `json:"sent_at,omitempty"`
}
