package model

import (
	"time"

	"github.com/google/uuid"
)

// Table statuses.
const (
	TableAvailable = "AVAILABLE"
	TableOccupied  = "OCCUPIED"
	TableReserved  = "RESERVED"
	TableDirty     = "DIRTY"
)

// Table is one physical table on the floor map.
// Invariant: CurrentCheckID is set iff Status == OCCUPIED, and then it must
// reference an OPEN check. Only TableRegistry writes these two fields.
type Table struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number int       `gorm:"uniqueIndex;not null"`
	Name   *string
	// Capacity is staff-assigned: 4, 6 or 8 seats
	Capacity       int        `gorm:"not null;default:4"`
	Status         string     `gorm:"type:varchar(20);not null;default:'AVAILABLE'"`
	CurrentCheckID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	CurrentCheck *Check `gorm:"foreignKey:CurrentCheckID"`
}
