package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	OrderPending   = "PENDING"
	OrderSent      = "SENT"
	OrderReady     = "READY"
	OrderCompleted = "COMPLETED"
	OrderVoided    = "VOIDED"
)

// OrderItem statuses.
const (
	ItemPending   = "PENDING"
	ItemPreparing = "PREPARING"
	ItemReady     = "READY"
	ItemVoided    = "VOIDED"
)

// Order is a batch of items entered together and sent to the stations as a
// unit. A check accumulates orders over its life; at most one PENDING order
// exists per open check (partial unique index, see infra.applySchemaPatches).
type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CheckID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Status          string    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	SentToKitchenAt *time.Time
	SentToBarAt     *time.Time
	OrderedByID     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem is one line of an order. PriceAtOrder snapshots MenuItem.Price at
// add-time so later menu price changes never alter open checks.
type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int       `gorm:"not null;default:1"`
	Notes      *string
	PriceAtOrder decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Order    *Order    `gorm:"foreignKey:OrderID"`
	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID"`
}
