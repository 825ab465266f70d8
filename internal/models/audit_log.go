package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLog records who changed what, for the collection ledger's paper trail.
type AuditLog struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	UserName    string `gorm:"size:100"`
	EntityType  string `gorm:"size:50;index;not null"` // donor, donation, group
	EntityID    uint   `gorm:"index;not null"`
	Action      AuditAction `gorm:"size:20;not null"`
	Description string      `gorm:"size:255"`
	CreatedAt   time.Time
}
