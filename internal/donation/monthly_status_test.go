package donation

import (
	"testing"
	"time"

	"hundi-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDonor(id uint, name, hundiNo string) models.Donor {
	return models.Donor{ID: id, Name: name, HundiNo: hundiNo}
}

func makeDonation(donorID uint, status models.DonationStatus, amount float64, month string) models.Donation {
	return models.Donation{
		DonorID:         donorID,
		Status:          status,
		Amount:          amount,
		CollectionMonth: month,
	}
}

func TestBuildMonthlyStatus_ConcreteScenario(t *testing.T) {
	donors := []models.Donor{
		makeDonor(1, "A", "H-1"),
		makeDonor(2, "B", "H-2"),
		makeDonor(3, "C", "H-3"),
	}
	donations := []models.Donation{
		makeDonation(1, models.DonationCollected, 500, "2024-06"),
		makeDonation(2, models.DonationSkipped, 0, "2024-06"),
	}

	status := BuildMonthlyStatus(2024, 6, donors, donations)

	assert.Equal(t, 3, status.TotalDonors)
	assert.Equal(t, 1, status.Collected)
	assert.Equal(t, 1, status.Pending)
	assert.Equal(t, 1, status.Skipped)
	assert.Equal(t, 500.0, status.TotalAmount)

	require.Len(t, status.Report, 3)
	assert.Equal(t, models.DonationCollected, status.Report[0].Status)
	assert.Equal(t, models.DonationSkipped, status.Report[1].Status)
	assert.Equal(t, models.DonationPending, status.Report[2].Status)
	assert.Equal(t, "C", status.Report[2].Donor.Name)
	assert.Nil(t, status.Report[2].Donation)
}

func TestBuildMonthlyStatus_ReportCoversRosterExactlyOnce(t *testing.T) {
	donors := []models.Donor{
		makeDonor(4, "D", "H-4"),
		makeDonor(1, "A", "H-1"),
		makeDonor(9, "I", "H-9"),
	}
	donations := []models.Donation{
		makeDonation(1, models.DonationCollected, 100, "2024-06"),
		makeDonation(1, models.DonationCollected, 100, "2024-06"),
		// donor not on roster; must not appear in the report
		makeDonation(42, models.DonationCollected, 999, "2024-06"),
	}

	status := BuildMonthlyStatus(2024, 6, donors, donations)

	require.Len(t, status.Report, len(donors))
	seen := make(map[uint]bool)
	for i, entry := range status.Report {
		assert.Equal(t, donors[i].ID, entry.Donor.ID, "roster order must be preserved")
		assert.False(t, seen[entry.Donor.ID], "donor %d reported twice", entry.Donor.ID)
		seen[entry.Donor.ID] = true
	}
	assert.Equal(t, 100.0, status.TotalAmount, "off-roster donations must not count")
}

func TestBuildMonthlyStatus_PendingCases(t *testing.T) {
	donors := []models.Donor{
		makeDonor(1, "A", "H-1"),
		makeDonor(2, "B", "H-2"),
	}
	// A has an explicit pending placeholder, B has nothing
	donations := []models.Donation{
		makeDonation(1, models.DonationPending, 0, "2024-06"),
	}

	status := BuildMonthlyStatus(2024, 6, donors, donations)

	assert.Equal(t, 2, status.Pending)
	for _, entry := range status.Report {
		assert.Equal(t, models.DonationPending, entry.Status)
		assert.Nil(t, entry.Donation, "pending entries carry no donation")
	}
}

func TestBuildMonthlyStatus_IgnoresOtherPeriods(t *testing.T) {
	donors := []models.Donor{makeDonor(1, "A", "H-1")}
	donations := []models.Donation{
		makeDonation(1, models.DonationCollected, 500, "2024-05"),
		makeDonation(1, models.DonationCollected, 700, "2024-07"),
	}

	status := BuildMonthlyStatus(2024, 6, donors, donations)

	assert.Equal(t, 1, status.Pending)
	assert.Equal(t, 0, status.Collected)
	assert.Equal(t, 0.0, status.TotalAmount)
}

func TestBuildMonthlyStatus_DuplicateLatestUpdatedWins(t *testing.T) {
	donors := []models.Donor{makeDonor(1, "A", "H-1")}

	older := makeDonation(1, models.DonationSkipped, 0, "2024-06")
	older.UpdatedAt = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	newer := makeDonation(1, models.DonationCollected, 250, "2024-06")
	newer.UpdatedAt = time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

	for _, order := range [][]models.Donation{{older, newer}, {newer, older}} {
		status := BuildMonthlyStatus(2024, 6, donors, order)

		require.Len(t, status.Report, 1)
		assert.Equal(t, models.DonationCollected, status.Report[0].Status)
		assert.Equal(t, 250.0, status.TotalAmount)
	}
}

func TestBuildMonthlyStatus_TotalAmountSumsCollectedOnly(t *testing.T) {
	donors := []models.Donor{
		makeDonor(1, "A", "H-1"),
		makeDonor(2, "B", "H-2"),
		makeDonor(3, "C", "H-3"),
	}
	donations := []models.Donation{
		makeDonation(1, models.DonationCollected, 500, "2024-06"),
		makeDonation(2, models.DonationCollected, 250.50, "2024-06"),
		makeDonation(3, models.DonationSkipped, 100, "2024-06"), // stale amount on a skip
	}

	status := BuildMonthlyStatus(2024, 6, donors, donations)

	assert.Equal(t, 750.50, status.TotalAmount)
	assert.Equal(t, 2, status.Collected)
	assert.Equal(t, 1, status.Skipped)
}

func TestBuildMonthlyStatus_EmptyRoster(t *testing.T) {
	status := BuildMonthlyStatus(2024, 6, nil, []models.Donation{
		makeDonation(1, models.DonationCollected, 500, "2024-06"),
	})

	assert.Equal(t, 0, status.TotalDonors)
	assert.Empty(t, status.Report)
	assert.Equal(t, 0.0, status.TotalAmount)
}

func TestBuildMonthlyStatus_MonthBoundaries(t *testing.T) {
	donors := []models.Donor{makeDonor(1, "A", "H-1")}

	january := BuildMonthlyStatus(2024, 1, donors, []models.Donation{
		makeDonation(1, models.DonationCollected, 10, "2024-01"),
	})
	assert.Equal(t, 1, january.Collected)

	december := BuildMonthlyStatus(2024, 12, donors, []models.Donation{
		makeDonation(1, models.DonationCollected, 10, "2024-12"),
	})
	assert.Equal(t, 1, december.Collected)
}
