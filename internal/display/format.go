package display

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"OrbWatch/internal/model"
)

const (
	// PriceUnit follows every rendered price.
	PriceUnit = "exalted"

	// TimeLayout renders MM/DD/YYYY, HH:MM AM/PM.
	TimeLayout = "01/02/2006, 03:04 PM"

	// InvalidDate is shown for labels that do not parse.
	InvalidDate = "Invalid Date"

	lastUpdatePrefix = "Last Update: "
)

// FormatPrice groups thousands and keeps at most three fraction digits,
// e.g. 305000 -> "305,000 exalted".
func FormatPrice(price float64) string {
	rounded := math.Round(price*1000) / 1000
	if rounded == 0 {
		rounded = 0 // no "-0"
	}
	return humanize.Commaf(rounded) + " " + PriceUnit
}

// FormatTimestamp renders a series label in TimeLayout, or InvalidDate.
func FormatTimestamp(label string, loc *time.Location) string {
	t, ok := model.ParseTimestamp(label, loc)
	if !ok {
		return InvalidDate
	}
	return t.Format(TimeLayout)
}

// FormatLastUpdate is the full text of the last update element.
func FormatLastUpdate(label string, loc *time.Location) string {
	return lastUpdatePrefix + FormatTimestamp(label, loc)
}
