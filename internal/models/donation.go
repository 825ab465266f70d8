package models

import "time"

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCollected DonationStatus = "collected"
	DonationSkipped   DonationStatus = "skipped"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationPending, DonationCollected, DonationSkipped:
		return true
	}
	return false
}

type Donation struct {
	ID              uint `gorm:"primaryKey"`
	DonorID         uint `gorm:"index;not null"`
	Donor           Donor
	Amount          float64        `gorm:"default:0"` // meaningful only while status is collected
	CollectionDate  time.Time      `gorm:"index;not null"`
	CollectionMonth string         `gorm:"size:7;index;not null"` // YYYY-MM period key
	Status          DonationStatus `gorm:"size:20;index;not null"`
	CollectedByID   uint           `gorm:"index;not null"`
	CollectedBy     User
	Notes           string `gorm:"size:500"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
