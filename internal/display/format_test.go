package display

import (
	"testing"
	"time"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{305000, "305,000 exalted"},
		{1000000, "1,000,000 exalted"},
		{1234.5, "1,234.5 exalted"},
		{180.12345, "180.123 exalted"},
		{180, "180 exalted"},
		{0, "0 exalted"},
		{-0.0001, "0 exalted"},
		{-2500, "-2,500 exalted"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.price); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"2024-01-03T00:00:00Z", "01/03/2024, 12:00 AM"},
		{"2024-01-03T13:30:00+01:00", "01/03/2024, 12:30 PM"},
		{"2024-01-03 15:04", "01/03/2024, 03:04 PM"},
		{"2024-01-03 15:04:59", "01/03/2024, 03:04 PM"},
		{"2024-01-03", "01/03/2024, 12:00 AM"},
		{"1704240000", "01/03/2024, 12:00 AM"},
		{"1704240000000", "01/03/2024, 12:00 AM"},
		{"not a date", InvalidDate},
		{"", InvalidDate},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.label, time.UTC); got != tt.want {
			t.Errorf("FormatTimestamp(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestFormatTimestamp_ZonelessUsesLocation(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	// Zone-less labels are wall-clock times in the display location.
	if got := FormatTimestamp("2024-01-03 09:15", loc); got != "01/03/2024, 09:15 AM" {
		t.Errorf("zone-less label: got %q", got)
	}
	// Zoned labels are converted into it.
	if got := FormatTimestamp("2024-01-03T09:15:00Z", loc); got != "01/03/2024, 01:15 AM" {
		t.Errorf("zoned label: got %q", got)
	}
}

func TestFormatLastUpdate(t *testing.T) {
	got := FormatLastUpdate("2024-01-03T00:00:00Z", time.UTC)
	if got != "Last Update: 01/03/2024, 12:00 AM" {
		t.Errorf("unexpected last update text: %q", got)
	}
	if got := FormatLastUpdate("bogus", time.UTC); got != "Last Update: Invalid Date" {
		t.Errorf("unexpected invalid text: %q", got)
	}
}
