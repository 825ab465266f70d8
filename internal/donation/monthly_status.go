package donation

import "hundi-backend/internal/models"

// DonorRef is the slice of donor identity carried in each report entry.
type DonorRef struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	HundiNo string `json:"hundiNo"`
}

// StatusEntry pairs a roster donor with its reconciled status for the
// period. Donation is attached only for collected and skipped entries.
type StatusEntry struct {
	Donor    DonorRef
	Status   models.DonationStatus
	Donation *models.Donation
}

// MonthlyStatus is the derived per-period report. It is computed on
// demand and never persisted.
type MonthlyStatus struct {
	Year        int
	Month       int
	TotalDonors int
	Collected   int
	Pending     int
	Skipped     int
	TotalAmount float64
	Report      []StatusEntry
}

// BuildMonthlyStatus left-joins the donor roster against the period's
// donation records.
//
// Rules:
//   - a donation counts only if its CollectionMonth equals the period key;
//   - collected and skipped are reported verbatim with the donation attached;
//   - a pending donation, or no donation at all, reports as pending with
//     no attachment;
//   - if the ledger holds several donations for one donor in the period,
//     the one with the latest UpdatedAt wins (ties keep the later record
//     in input order);
//   - report order follows roster order.
func BuildMonthlyStatus(year, month int, donors []models.Donor, donations []models.Donation) MonthlyStatus {
	key := PeriodKey(year, month)

	byDonor := make(map[uint]*models.Donation, len(donations))
	for i := range donations {
		d := &donations[i]
		if d.CollectionMonth != key {
			continue
		}
		if prev, ok := byDonor[d.DonorID]; !ok || !d.UpdatedAt.Before(prev.UpdatedAt) {
			byDonor[d.DonorID] = d
		}
	}

	status := MonthlyStatus{
		Year:        year,
		Month:       month,
		TotalDonors: len(donors),
		Report:      make([]StatusEntry, 0, len(donors)),
	}

	for i := range donors {
		donor := &donors[i]
		entry := StatusEntry{
			Donor:  DonorRef{ID: donor.ID, Name: donor.Name, HundiNo: donor.HundiNo},
			Status: models.DonationPending,
		}

		if d, ok := byDonor[donor.ID]; ok {
			switch d.Status {
			case models.DonationCollected:
				entry.Status = models.DonationCollected
				entry.Donation = d
				status.Collected++
				status.TotalAmount += d.Amount
			case models.DonationSkipped:
				entry.Status = models.DonationSkipped
				entry.Donation = d
				status.Skipped++
			default:
				// pending placeholder reports as pending, nothing attached
				status.Pending++
			}
		} else {
			status.Pending++
		}

		status.Report = append(status.Report, entry)
	}

	return status
}
