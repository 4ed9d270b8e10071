package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseFYDateRange converts an Australian financial year label like "2024-25"
// into its inclusive date range, 1 July through 30 June.
func ParseFYDateRange(financialYear string) (time.Time, time.Time, error) {
	parts := strings.Split(financialYear, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid financial year format %q, expected YYYY-YY", financialYear)
	}
	startYear, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid financial year %q: %w", financialYear, err)
	}
	endPart, err := strconv.Atoi(parts[1])
	if err != nil || endPart != (startYear+1)%100 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid financial year %q: end year must follow start year", financialYear)
	}
	start := time.Date(startYear, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(startYear+1, time.June, 30, 23, 59, 59, 0, time.UTC)
	return start, end, nil
}

// CurrentAustralianFY returns the label of the financial year containing
// today, e.g. "2025-26". The Australian FY runs 1 July to 30 June.
func CurrentAustralianFY() string {
	now := time.Now()
	startYear := now.Year()
	if now.Month() < time.July {
		startYear--
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}
