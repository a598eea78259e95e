package timeutil

import "testing"

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "00:00:00.00"},
		{"whole minutes", 90, "00:01:30.00"},
		{"hours", 3661, "01:01:01.00"},
		{"fractional", 30.53, "00:00:30.53"},
		{"just under a minute", 59.99, "00:00:59.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSeconds(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatSeconds(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name  string
		clock string
		want  float64
	}{
		{"zero", "00:00:00.00", 0},
		{"minutes", "00:01:30.00", 90},
		{"hours", "01:01:01.00", 3661},
		{"fractional", "00:00:30.53", 30.53},
		{"not a clock", "N/A", 0},
		{"garbage", "aa:bb:cc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseClock(tt.clock)
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.clock, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 1.5, 59.99, 90, 3661.25} {
		got := ParseClock(FormatSeconds(seconds))
		if diff := got - seconds; diff > 0.01 || diff < -0.01 {
			t.Errorf("round trip of %v gave %v", seconds, got)
		}
	}
}
