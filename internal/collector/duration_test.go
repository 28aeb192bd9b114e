package collector

import "testing"

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"minutes and seconds", "PT4M13S", 253},
		{"hours minutes seconds", "PT1H2M3S", 3723},
		{"seconds only", "PT45S", 45},
		{"hours only", "PT2H", 7200},
		{"days and time", "P1DT1H", 90000},
		{"zero", "PT0S", 0},
		{"empty", "", 0},
		{"garbage", "4 minutes", 0},
		{"missing prefix", "T4M13S", 0},
		{"trailing junk", "PT4M13Sx", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDurationSeconds(tt.in); got != tt.want {
				t.Errorf("ParseDurationSeconds(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
