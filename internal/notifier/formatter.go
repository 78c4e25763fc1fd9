package notifier

import (
	"fmt"
	"html"
	"strings"

	"OrbWatch/internal/calculator"
	"OrbWatch/internal/display"
	"OrbWatch/internal/view"
)

// FormatStatus renders the dashboard state as a chat message.
func FormatStatus(s view.Snapshot) string {
	var b strings.Builder
	b.WriteString("💠 <b>Divine Orb</b>\n\n")

	price := s.CurrentPrice
	if price == "" {
		price = "no data yet"
	}
	b.WriteString(fmt.Sprintf("Current Price: %s\n", html.EscapeString(price)))
	if s.LastUpdate != "" {
		b.WriteString(html.EscapeString(s.LastUpdate) + "\n")
	}
	if points := s.Chart.Points(); len(points) > 0 {
		sum, _ := calculator.Summarize(points)
		b.WriteString(fmt.Sprintf("\nWindow (%d points): %+.1f%%\n", len(points), sum.ChangePct))
		b.WriteString(fmt.Sprintf("High: %s\nLow: %s\nAverage: %s\n",
			display.FormatPrice(sum.High), display.FormatPrice(sum.Low), display.FormatPrice(sum.Average)))
	}
	if s.ErrorVisible {
		b.WriteString(fmt.Sprintf("\n⚠️ %s\n", html.EscapeString(s.ErrorText)))
	}
	return b.String()
}

// FormatAlert is sent when the display enters the error state.
func FormatAlert(message string, cause error) string {
	return fmt.Sprintf("❌ <b>OrbWatch</b> | %s\n\n%s", html.EscapeString(message), html.EscapeString(cause.Error()))
}

// FormatRecovered is sent when the display leaves the error state.
func FormatRecovered(s view.Snapshot) string {
	return "✅ <b>OrbWatch recovered</b>\n\n" + FormatStatus(s)
}

// HelpText lists the chat commands.
const HelpText = "Available commands:\n• /price - current price\n• /refresh - update price data"
