package voice

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		country string
		want    string
	}{
		{"already international", "+254712000001", "254", "+254712000001"},
		{"national trunk prefix", "0712000001", "254", "+254712000001"},
		{"spaces and dashes", "0712 000-001", "254", "+254712000001"},
		{"country code without plus", "254712000001", "254", "+254712000001"},
		{"formatted international", "+1 (415) 555-0100", "254", "+14155550100"},
		{"bare digits get country code", "712000001", "254", "+254712000001"},
		{"no digits at all", "call me", "254", ""},
		{"empty", "", "254", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePhone(tc.raw, tc.country); got != tc.want {
				t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tc.raw, tc.country, got, tc.want)
			}
		})
	}
}
