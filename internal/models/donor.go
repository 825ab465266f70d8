package models

import "time"

type Donor struct {
	ID            uint   `gorm:"primaryKey"`
	HundiNo       string `gorm:"size:50;uniqueIndex;not null"` // human-assigned box number, not numeric-sortable
	Name          string `gorm:"size:100;not null"`
	MobileNumber  string `gorm:"size:20;not null"`
	Address       string `gorm:"size:255;not null"`
	GoogleMapLink string `gorm:"size:512"`
	Longitude     float64
	Latitude      float64
	Date          time.Time `gorm:"index;not null"` // anchor day used to schedule monthly visits
	GroupID       *uint     `gorm:"index"`
	Group         *Group
	CreatedByID   uint `gorm:"index;not null"`
	CreatedBy     User
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
