package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Check statuses.
const (
	CheckOpen   = "OPEN"
	CheckClosed = "CLOSED"
	CheckVoided = "VOIDED"
)

// Check is the financial envelope for one or more tables during a single
// billing cycle. Totals are written exclusively by CheckLedger:
// Total == Subtotal == Σ(price_at_order × quantity) over live items of
// non-voided orders. Tax and Discount are persisted but currently always 0.
type Check struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Status     string          `gorm:"type:varchar(20);not null;default:'OPEN'"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Tax        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Discount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	OpenedByID uuid.UUID       `gorm:"type:uuid;not null"`
	ClosedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Tables []CheckTable `gorm:"foreignKey:CheckID"`
	Orders []Order      `gorm:"foreignKey:CheckID"`
}

// CheckTable links a check to the tables it covers. Position 0 is the
// primary table used for display; merges never reorder existing rows.
type CheckTable struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CheckID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_check_table"`
	TableID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_check_table"`
	Position int       `gorm:"not null;default:0"`

	Table *Table `gorm:"foreignKey:TableID"`
}

func (CheckTable) TableName() string { return "check_tables" }
