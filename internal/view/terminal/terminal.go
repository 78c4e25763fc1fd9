// Package terminal is the full-screen terminal dashboard.
package terminal

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"OrbWatch/internal/calculator"
	"OrbWatch/internal/display"
	"OrbWatch/internal/model"
	"OrbWatch/internal/view"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	minChartRows  = 6
	axisTickTime  = "01/02 15:04"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	priceStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	okDot        = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("●")
	errDot       = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("●")
	lineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4BC0C0"))
)

type snapshotMsg view.Snapshot

// Model renders board snapshots. Refresh is invoked on the r key.
type Model struct {
	snap     view.Snapshot
	width    int
	height   int
	refresh  func()
	location *time.Location
}

// New creates a dashboard model starting from snap.
func New(snap view.Snapshot, refresh func(), loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{snap: snap, width: defaultWidth, height: defaultHeight, refresh: refresh, location: loc}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = view.Snapshot(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r", "R":
			if m.refresh == nil {
				return m, nil
			}
			refresh := m.refresh
			return m, func() tea.Msg {
				refresh()
				return nil
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	dot := okDot
	if m.snap.StatusError {
		dot = errDot
	}
	b.WriteString(dot + " " + titleStyle.Render(model.ChartTitle))
	b.WriteString("\n\n")

	price := m.snap.CurrentPrice
	if price == "" {
		price = "--"
	}
	b.WriteString("Current Price: " + priceStyle.Render(price) + "\n")
	if m.snap.LastUpdate != "" {
		b.WriteString(faintStyle.Render(m.snap.LastUpdate))
	}
	b.WriteString("\n")

	switch {
	case m.snap.LoadingVisible:
		b.WriteString(loadingStyle.Render("Loading..."))
	case m.snap.ErrorVisible:
		b.WriteString(errorStyle.Render(m.snap.ErrorText))
	}
	b.WriteString("\n\n")

	b.WriteString(m.chartView())
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("[r] refresh  [q] quit"))
	return b.String()
}

func (m Model) chartView() string {
	points := m.snap.Chart.Points()
	if len(points) == 0 {
		return faintStyle.Render("No price data yet.")
	}
	spec := m.snap.Chart

	w := m.width - 2
	if w < 20 {
		w = 20
	}
	h := m.height - 12
	if h < minChartRows {
		h = minChartRows
	}

	minY, maxY := points[0], points[0]
	for _, p := range points {
		minY = math.Min(minY, p)
		maxY = math.Max(maxY, p)
	}
	margin := (maxY - minY) * 0.1
	if margin == 0 {
		margin = math.Max(math.Abs(minY)*0.005, 1)
	}
	maxX := float64(len(points) - 1)
	if maxX == 0 {
		maxX = 1
	}

	lc := linechart.New(w, h,
		0, maxX,
		minY-margin, maxY+margin,
		linechart.WithXYSteps(4, 4),
		linechart.WithXLabelFormatter(m.xLabel(spec.Labels)),
		linechart.WithYLabelFormatter(yLabel),
		linechart.WithStyles(faintStyle, faintStyle, lineStyle),
	)
	if len(points) == 1 {
		lc.DrawBrailleLineWithStyle(
			canvas.Float64Point{X: 0, Y: points[0]},
			canvas.Float64Point{X: 1, Y: points[0]}, lineStyle)
	}
	for i := 0; i < len(points)-1; i++ {
		p1 := canvas.Float64Point{X: float64(i), Y: points[i]}
		p2 := canvas.Float64Point{X: float64(i + 1), Y: points[i+1]}
		lc.DrawBrailleLineWithStyle(p1, p2, lineStyle)
	}
	lc.DrawXYAxisAndLabel()

	caption := faintStyle.Render(fmt.Sprintf("%s / %s", spec.Options.Y.Title, spec.Options.X.Title))
	return caption + "\n" + lc.View() + "\n" + summaryLine(points)
}

func summaryLine(points []float64) string {
	sum, ok := calculator.Summarize(points)
	if !ok {
		return ""
	}
	return faintStyle.Render(fmt.Sprintf("High %s  Low %s  Avg %s  %+.1f%%",
		display.FormatPrice(sum.High), display.FormatPrice(sum.Low), display.FormatPrice(sum.Average), sum.ChangePct))
}

func (m Model) xLabel(labels []string) linechart.LabelFormatter {
	return func(_ int, v float64) string {
		idx := int(math.Round(v))
		if idx < 0 || idx >= len(labels) {
			return ""
		}
		if t, ok := model.ParseTimestamp(labels[idx], m.location); ok {
			return t.Format(axisTickTime)
		}
		return labels[idx]
	}
}

func yLabel(_ int, v float64) string {
	switch {
	case math.Abs(v) >= 100:
		return fmt.Sprintf("%.0f", v)
	case math.Abs(v) >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

// Run shows the dashboard until the user quits or ctx is cancelled.
func Run(ctx context.Context, board *view.Board, refresh func(), loc *time.Location) error {
	p := tea.NewProgram(New(board.Snapshot(), refresh, loc), tea.WithAltScreen())

	// Board notifications must not block; keep only the newest snapshot.
	latest := make(chan view.Snapshot, 1)
	unsubscribe := board.Subscribe(func(s view.Snapshot) {
		select {
		case <-latest:
		default:
		}
		select {
		case latest <- s:
		default:
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case s := <-latest:
				p.Send(snapshotMsg(s))
			case <-ctx.Done():
				p.Quit()
				return
			case <-done:
				return
			}
		}
	}()

	_, err := p.Run()
	return err
}
