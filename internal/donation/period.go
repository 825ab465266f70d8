package donation

import (
	"fmt"
	"time"
)

// PeriodKey formats a (year, month) pair as the YYYY-MM key donations
// are bucketed under. The year is zero-padded to four digits to match
// time.Format("2006-01"), which derives CollectionMonth.
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ValidPeriod rejects months outside 1..12 and non-positive years.
// Implausible but positive years are accepted; they simply match no
// donations.
func ValidPeriod(year, month int) bool {
	return year > 0 && month >= 1 && month <= 12
}

// AnchorDateInPeriod projects a donor's anchor visit day into the target
// period, clamping to the period's last day (an anchor on the 31st lands
// on Feb 28/29).
func AnchorDateInPeriod(anchor time.Time, year, month int) time.Time {
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := anchor.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
