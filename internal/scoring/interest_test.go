package scoring

import "testing"

func TestInterest(t *testing.T) {
	cases := []struct {
		score  float64
		label  string
		rating string
	}{
		{0.92, "Must Watch", "92"},
		{0.8, "Must Watch", "80"},
		{0.65, "High Interest", "65"},
		{0.4, "Decent", "40"},
		{0.1, "Low Interest", "10"},
		{0, "Low Interest", "0"},
		{-1, "Unknown", "?"},
	}
	for _, tc := range cases {
		got := Interest(tc.score)
		if got.Label != tc.label || got.Rating != tc.rating {
			t.Fatalf("Interest(%v) = %+v, want %s/%s", tc.score, got, tc.label, tc.rating)
		}
	}
}
