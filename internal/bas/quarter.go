// Package bas computes quarterly GST/BAS summaries from categorized
// transactions. Quarters follow the Australian financial year: Q1 Jul-Sep,
// Q2 Oct-Dec, Q3 Jan-Mar, Q4 Apr-Jun.
package bas

import (
	"fmt"
	"time"
)

// Quarter is one BAS reporting period.
type Quarter struct {
	Label string    `json:"label"` // e.g. "2025-26-Q1"
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FYQuarter returns the q-th quarter (1-4) of the financial year starting
// 1 July of fyStartYear.
func FYQuarter(fyStartYear, q int) (Quarter, error) {
	if q < 1 || q > 4 {
		return Quarter{}, fmt.Errorf("quarter must be 1-4, got %d", q)
	}
	start := time.Date(fyStartYear, time.July, 1, 0, 0, 0, 0, time.UTC).AddDate(0, (q-1)*3, 0)
	end := start.AddDate(0, 3, 0).Add(-time.Second)
	return Quarter{
		Label: fmt.Sprintf("%d-%02d-Q%d", fyStartYear, (fyStartYear+1)%100, q),
		Start: start,
		End:   end,
	}, nil
}

// QuarterForDate returns the BAS quarter containing d.
func QuarterForDate(d time.Time) Quarter {
	fyStart := d.Year()
	if d.Month() < time.July {
		fyStart--
	}
	q := (int(d.Month())-int(time.July)+12)%12/3 + 1
	quarter, _ := FYQuarter(fyStart, q)
	return quarter
}

// CurrentQuarter returns the quarter containing the current time.
func CurrentQuarter() Quarter {
	return QuarterForDate(time.Now().UTC())
}
