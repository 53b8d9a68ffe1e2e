package model

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles. Role gates which operations are callable (router allow-lists).
const (
	RoleAdmin     = "ADMIN"
	RoleOwner     = "OWNER"
	RoleCajero    = "CAJERO"
	RoleMozo      = "MOZO"
	RoleCocinero  = "COCINERO"
	RoleBartender = "BARTENDER"
)

// Staff stores restaurant users with role-based access.
type Staff struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Staff) TableName() string { return "staff" }
