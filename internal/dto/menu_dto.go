package dto

import "github.com/shopspring/decimal"

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RecipeLineResponse struct {
	InventoryItemID  string          `json:"inventory_item_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	IsOptional       bool            `json:"is_optional"`
}

type MenuItemResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Station  string          `json:"station"`
	Category string          `json:"category,omitempty"`
}
