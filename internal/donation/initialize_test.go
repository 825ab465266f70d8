package donation

import (
	"testing"
	"time"

	"hundi-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anchoredDonor(id uint, day int) models.Donor {
	return models.Donor{
		ID:   id,
		Date: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestPendingPlaceholders_SkipsDonorsWithAnyRecord(t *testing.T) {
	donors := []models.Donor{
		anchoredDonor(1, 5),
		anchoredDonor(2, 10),
		anchoredDonor(3, 15),
		anchoredDonor(4, 20),
	}
	// every status counts as already seeded, only donor 4 is missing
	existing := []models.Donation{
		makeDonation(1, models.DonationCollected, 500, "2024-06"),
		makeDonation(2, models.DonationSkipped, 0, "2024-06"),
		makeDonation(3, models.DonationPending, 0, "2024-06"),
	}

	placeholders := PendingPlaceholders(2024, 6, donors, existing, 9)

	require.Len(t, placeholders, 1)
	p := placeholders[0]
	assert.Equal(t, uint(4), p.DonorID)
	assert.Equal(t, models.DonationPending, p.Status)
	assert.Equal(t, 0.0, p.Amount)
	assert.Equal(t, "2024-06", p.CollectionMonth)
	assert.Equal(t, uint(9), p.CollectedByID)
	assert.Equal(t, 20, p.CollectionDate.Day())
}

func TestPendingPlaceholders_Idempotent(t *testing.T) {
	donors := []models.Donor{
		anchoredDonor(1, 5),
		anchoredDonor(2, 31),
		anchoredDonor(3, 15),
	}

	first := PendingPlaceholders(2024, 6, donors, nil, 9)
	require.Len(t, first, 3)

	// seeding again on top of the first run's output yields nothing
	second := PendingPlaceholders(2024, 6, donors, first, 9)
	assert.Empty(t, second)

	// same once some placeholders progressed to collected or skipped
	first[0].Status = models.DonationCollected
	first[0].Amount = 500
	first[1].Status = models.DonationSkipped
	third := PendingPlaceholders(2024, 6, donors, first, 9)
	assert.Empty(t, third)
}

func TestPendingPlaceholders_OtherPeriodsDoNotCount(t *testing.T) {
	donors := []models.Donor{anchoredDonor(1, 5)}
	existing := []models.Donation{
		makeDonation(1, models.DonationCollected, 500, "2024-05"),
		makeDonation(1, models.DonationPending, 0, "2024-07"),
	}

	placeholders := PendingPlaceholders(2024, 6, donors, existing, 9)

	require.Len(t, placeholders, 1)
	assert.Equal(t, "2024-06", placeholders[0].CollectionMonth)
}

func TestPendingPlaceholders_AnchorClampedIntoPeriod(t *testing.T) {
	donors := []models.Donor{anchoredDonor(1, 31)}

	placeholders := PendingPlaceholders(2023, 2, donors, nil, 9)

	require.Len(t, placeholders, 1)
	assert.Equal(t, 28, placeholders[0].CollectionDate.Day())
	assert.Equal(t, time.February, placeholders[0].CollectionDate.Month())
}

func TestPendingPlaceholders_EmptyRoster(t *testing.T) {
	assert.Empty(t, PendingPlaceholders(2024, 6, nil, nil, 9))
}
