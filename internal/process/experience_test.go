package process

import "testing"

func TestExtractMinYears(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"simple plus", "5+ years of experience", 5},
		{"range reports low bound", "3-5 years building distributed systems", 3},
		{"en dash range", "2–4 years", 2},
		{"minimum phrasing", "minimum of 4 years in backend development", 4},
		{"at least phrasing", "at least 2 yrs with Go", 2},
		{"abbreviated yrs", "6 yrs experience required", 6},
		{"singular year", "1 year of professional experience", 1},
		{"multiple mentions take highest", "2+ years with Go, 7+ years overall", 7},
		{"noise cap filters anniversaries", "celebrating 22 years of innovation", 0},
		{"product versions do not match", "experience with Windows 10 and HTML5", 0},
		{"no mention", "we value curiosity and ownership", 0},
		{"empty", "", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractMinYears(tc.text); got != tc.want {
				t.Errorf("extractMinYears(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}
