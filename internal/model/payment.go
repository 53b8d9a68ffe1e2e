package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods.
const (
	PayCash      = "CASH"
	PayMobilePay = "MOBILE_PAY"
	PayMixed     = "MIXED"
)

// PaymentCompleted is the only status PaymentReconciler writes today; the
// column exists so refunds can land without a schema change.
const PaymentCompleted = "COMPLETED"

// Payment records one settled payment attempt against a check. The amount was
// verified against the check total (epsilon 0.01) before this row exists.
type Payment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CheckID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method          string          `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CashAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MobilePayAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Status          string          `gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	ReceivedByID    uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt       time.Time
}
