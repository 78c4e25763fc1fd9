package model

// Chart captions. The y axis and the single dataset share the unit caption.
const (
	ChartTitle     = "Divine Orb Price Over Time"
	ChartSeriesKey = "Price (exalted)"
	ChartXTitle    = "Time"
	ChartYTitle    = "Price (exalted)"
)

// RGB is an opaque stroke color.
type RGB struct {
	R, G, B uint8
}

// Dataset is one plotted line.
type Dataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor RGB       `json:"border_color"`
	Tension     float64   `json:"tension"`
	Fill        bool      `json:"fill"`
}

// Axis describes one chart axis.
type Axis struct {
	Title       string `json:"title"`
	BeginAtZero bool   `json:"begin_at_zero"`
}

// ChartOptions controls layout and captions.
type ChartOptions struct {
	Responsive          bool   `json:"responsive"`
	MaintainAspectRatio bool   `json:"maintain_aspect_ratio"`
	Title               string `json:"title"`
	X                   Axis   `json:"x"`
	Y                   Axis   `json:"y"`
}

// ChartSpec is everything a renderer needs to draw one chart instance.
type ChartSpec struct {
	Type     string       `json:"type"`
	Labels   []string     `json:"labels"`
	Datasets []Dataset    `json:"datasets"`
	Options  ChartOptions `json:"options"`
}

// NewPriceChartSpec builds the line chart configuration for a price series.
// Both slices are shared with the series, not copied.
func NewPriceChartSpec(s *PriceSeries) *ChartSpec {
	var prices []float64
	var labels []string
	if s != nil {
		prices, labels = s.Prices, s.Labels
	}
	return &ChartSpec{
		Type:   "line",
		Labels: labels,
		Datasets: []Dataset{{
			Label:       ChartSeriesKey,
			Data:        prices,
			BorderColor: RGB{R: 75, G: 192, B: 192},
			Tension:     0.1,
			Fill:        false,
		}},
		Options: ChartOptions{
			Responsive:          true,
			MaintainAspectRatio: false,
			Title:               ChartTitle,
			X:                   Axis{Title: ChartXTitle},
			Y:                   Axis{Title: ChartYTitle, BeginAtZero: false},
		},
	}
}

// Points returns the first dataset's values, or nil.
func (c *ChartSpec) Points() []float64 {
	if c == nil || len(c.Datasets) == 0 {
		return nil
	}
	return c.Datasets[0].Data
}
