// Package pngchart renders the live price chart to PNG.
package pngchart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"OrbWatch/internal/model"
	"OrbWatch/internal/view"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 480

	timeTickLayout = "01/02 15:04"
)

// ErrTooFewPoints is returned for charts that cannot draw a line.
var ErrTooFewPoints = errors.New("chart needs at least two points")

// Render draws spec as a PNG. Labels become a time axis when every one of
// them parses, otherwise points are plotted by index.
func Render(w io.Writer, spec *model.ChartSpec, loc *time.Location, width, height int) error {
	ys := spec.Points()
	if len(ys) < 2 {
		return ErrTooFewPoints
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	ds := spec.Datasets[0]
	st := chart.Style{
		StrokeColor: drawing.Color{R: ds.BorderColor.R, G: ds.BorderColor.G, B: ds.BorderColor.B, A: 255},
		StrokeWidth: 2,
	}

	var series chart.Series
	xAxis := chart.XAxis{Name: spec.Options.X.Title}
	if times, ok := labelTimes(spec.Labels, len(ys), loc); ok {
		series = chart.TimeSeries{Name: ds.Label, XValues: times, YValues: ys, Style: st}
		xAxis.ValueFormatter = chart.TimeValueFormatterWithFormat(timeTickLayout)
	} else {
		xs := make([]float64, len(ys))
		for i := range xs {
			xs[i] = float64(i + 1)
		}
		series = chart.ContinuousSeries{Name: ds.Label, XValues: xs, YValues: ys, Style: st}
	}

	ch := chart.Chart{
		Title:      spec.Options.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: spec.Options.Y.Title},
		Series:     []chart.Series{series},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func labelTimes(labels []string, n int, loc *time.Location) ([]time.Time, bool) {
	if len(labels) < n {
		return nil, false
	}
	ts := make([]time.Time, n)
	for i := 0; i < n; i++ {
		t, ok := model.ParseTimestamp(labels[i], loc)
		if !ok {
			return nil, false
		}
		ts[i] = t
	}
	return ts, true
}

// Exporter writes every new chart instance on the board to a file.
type Exporter struct {
	Path     string
	Location *time.Location

	mu      sync.Mutex
	lastGen int
	pending chan *model.ChartSpec
}

// NewExporter creates an exporter for path.
func NewExporter(path string, loc *time.Location) *Exporter {
	return &Exporter{Path: path, Location: loc, pending: make(chan *model.ChartSpec, 1)}
}

// Run subscribes to board and writes charts until done is closed.
func (e *Exporter) Run(board *view.Board, done <-chan struct{}) {
	unsubscribe := board.Subscribe(e.observe)
	defer unsubscribe()

	for {
		select {
		case <-done:
			return
		case spec := <-e.pending:
			if err := e.write(spec); err != nil && !errors.Is(err, ErrTooFewPoints) {
				log.Printf("[ERROR] export chart png: %v", err)
			}
		}
	}
}

// observe runs inside board notifications and must not block; only the
// newest pending chart is kept.
func (e *Exporter) observe(s view.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s.Chart == nil || s.ChartGeneration <= e.lastGen {
		return
	}
	e.lastGen = s.ChartGeneration
	select {
	case <-e.pending:
	default:
	}
	select {
	case e.pending <- s.Chart:
	default:
	}
}

func (e *Exporter) write(spec *model.ChartSpec) error {
	var buf bytes.Buffer
	if err := Render(&buf, spec, e.Location, DefaultWidth, DefaultHeight); err != nil {
		return err
	}
	if dir := filepath.Dir(e.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	tmp := e.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return os.Rename(tmp, e.Path)
}
