package model

import (
	"time"

	"github.com/google/uuid"
)

// Void targets.
const (
	VoidTargetOrderItem = "ORDER_ITEM"
	VoidTargetOrder     = "ORDER"
	VoidTargetCheck     = "CHECK"
)

// VoidRecord is the append-only audit trail for cancellations. A void never
// restores inventory: items already marked READY stay deducted (write-off).
type VoidRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Target     string    `gorm:"type:varchar(20);not null"`
	TargetID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Reason     string    `gorm:"not null"`
	VoidedByID uuid.UUID `gorm:"type:uuid;not null"`
	Note       *string
	CreatedAt  time.Time
}
