package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Preparation stations a menu item is routed to.
const (
	StationKitchen = "KITCHEN"
	StationBar     = "BAR"
)

// Category groups menu items for the UI. Read-mostly; managed via seeding.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Category) TableName() string { return "categories" }

// MenuItem is a sellable dish or drink. Price here is the menu price; open
// checks carry their own snapshot in OrderItem.PriceAtOrder.
type MenuItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string          `gorm:"index;not null"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Station    string          `gorm:"type:varchar(20);not null;default:'KITCHEN'"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Active     bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *Category    `gorm:"foreignKey:CategoryID"`
	Recipe   []RecipeItem `gorm:"foreignKey:MenuItemID"`
}

// RecipeItem defines the inventory consumed per ONE unit of a menu item sold.
// Optional lines (garnish, ice) are never deducted by InventoryLedger.
type RecipeItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MenuItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityRequired decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	IsOptional       bool            `gorm:"not null;default:false"`

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID"`
}
