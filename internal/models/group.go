package models

import "time"

type Group struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:255"`
	CreatedByID uint   `gorm:"index;not null"`
	CreatedBy   User
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Donors []Donor
}
