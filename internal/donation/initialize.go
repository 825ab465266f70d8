package donation

import "hundi-backend/internal/models"

// PendingPlaceholders returns the placeholder records needed to seed a
// period: one pending donation per roster donor that has no donation in
// the period yet, whatever its status. Donors already holding a record
// are left alone, so seeding a period twice produces nothing the second
// time.
func PendingPlaceholders(year, month int, donors []models.Donor, existing []models.Donation, collectedByID uint) []models.Donation {
	key := PeriodKey(year, month)

	seeded := make(map[uint]bool, len(existing))
	for i := range existing {
		if existing[i].CollectionMonth == key {
			seeded[existing[i].DonorID] = true
		}
	}

	placeholders := make([]models.Donation, 0)
	for i := range donors {
		if seeded[donors[i].ID] {
			continue
		}
		placeholders = append(placeholders, models.Donation{
			DonorID:         donors[i].ID,
			Amount:          0,
			CollectionDate:  AnchorDateInPeriod(donors[i].Date, year, month),
			CollectionMonth: key,
			Status:          models.DonationPending,
			CollectedByID:   collectedByID,
		})
	}
	return placeholders
}
