package terminal

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"OrbWatch/internal/model"
	"OrbWatch/internal/view"
)

func scenarioSnapshot() view.Snapshot {
	return view.Snapshot{
		CurrentPrice: "305,000 exalted",
		LastUpdate:   "Last Update: 01/03/2024, 12:00 AM",
		Chart: model.NewPriceChartSpec(&model.PriceSeries{
			Prices: []float64{100, 200, 305000},
			Labels: []string{"2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", "2024-01-03T00:00:00Z"},
		}),
		ChartGeneration: 1,
	}
}

func TestView_ShowsElements(t *testing.T) {
	m := New(view.Snapshot{}, nil, time.UTC)
	updated, _ := m.Update(snapshotMsg(scenarioSnapshot()))
	out := updated.View()

	for _, want := range []string{model.ChartTitle, "305,000 exalted", "Last Update: 01/03/2024, 12:00 AM", "Price (exalted)", "High 305,000 exalted", "Low 100 exalted"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(out, "No price data yet.") {
		t.Error("chart placeholder shown with data present")
	}
}

func TestView_LoadingAndError(t *testing.T) {
	m := New(view.Snapshot{LoadingVisible: true}, nil, time.UTC)
	if !strings.Contains(m.View(), "Loading...") {
		t.Error("loading indicator not rendered")
	}

	m = New(view.Snapshot{ErrorVisible: true, ErrorText: "Error loading price data. Please try again.", StatusError: true}, nil, time.UTC)
	out := m.View()
	if !strings.Contains(out, "Error loading price data. Please try again.") {
		t.Error("error banner not rendered")
	}
	if !strings.Contains(out, "No price data yet.") {
		t.Error("empty chart placeholder missing")
	}

	m = New(view.Snapshot{ErrorText: "stale", ErrorVisible: false}, nil, time.UTC)
	if strings.Contains(m.View(), "stale") {
		t.Error("hidden banner rendered")
	}
}

func TestView_FlatAndSinglePointSeries(t *testing.T) {
	for _, prices := range [][]float64{{5}, {7, 7, 7}, {0, 0}} {
		labels := make([]string, len(prices))
		snap := view.Snapshot{Chart: model.NewPriceChartSpec(&model.PriceSeries{Prices: prices, Labels: labels})}
		m := New(snap, nil, time.UTC)
		if out := m.View(); out == "" {
			t.Errorf("%v: empty view", prices)
		}
	}
}

func TestUpdate_Resize(t *testing.T) {
	m := New(scenarioSnapshot(), nil, time.UTC)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := updated.(Model)
	if got.width != 120 || got.height != 40 {
		t.Errorf("size = %dx%d", got.width, got.height)
	}
	if got.View() == "" {
		t.Error("empty view after resize")
	}
}

func TestUpdate_RefreshKey(t *testing.T) {
	calls := 0
	m := New(view.Snapshot{}, func() { calls++ }, time.UTC)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("expected a refresh command")
	}
	cmd()
	if calls != 1 {
		t.Errorf("refresh calls = %d, want 1", calls)
	}

	none := New(view.Snapshot{}, nil, time.UTC)
	if _, cmd := none.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}); cmd != nil {
		t.Error("refresh command without a refresh func")
	}
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := New(view.Snapshot{}, nil, time.UTC)
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: no command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected quit", key)
		}
	}
}
