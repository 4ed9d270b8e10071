package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFYDateRange(t *testing.T) {
	start, end, err := ParseFYDateRange("2024-25")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.June, 30, 23, 59, 59, 0, time.UTC), end)
}

func TestParseFYDateRangeInvalid(t *testing.T) {
	for _, fy := range []string{"2024", "24-25x", "abcd-ef", ""} {
		_, _, err := ParseFYDateRange(fy)
		assert.Error(t, err, "expected error for %q", fy)
	}
}

func TestCurrentAustralianFYFormat(t *testing.T) {
	fy := CurrentAustralianFY()
	require.Len(t, fy, 7)
	start, end, err := ParseFYDateRange(fy)
	require.NoError(t, err)
	now := time.Now()
	assert.True(t, now.After(start) && now.Before(end), "current FY must contain today")
}
