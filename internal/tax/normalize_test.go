package tax

import "testing"

func TestNormalizeMerchant(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"COLES 0483 NSW", "Coles"},
		{"WOOLWORTHS 1234 VIC", "Woolworths"},
		{"UBER *TRIP REF 12345", "Uber Trip"},
		{"JB HI-FI CARD 9981", "Jb Hi-Fi"},
		{"bunnings warehouse", "Bunnings Warehouse"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeMerchant(tc.raw); got != tc.want {
			t.Errorf("NormalizeMerchant(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
