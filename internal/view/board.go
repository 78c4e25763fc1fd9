package view

import (
	"errors"
	"sync"
	"time"

	"OrbWatch/internal/display"
	"OrbWatch/internal/model"
)

// ErrChartDestroyed is returned when a chart instance is destroyed twice.
var ErrChartDestroyed = errors.New("chart already destroyed")

// Snapshot is the visible state of every dashboard element.
type Snapshot struct {
	LoadingVisible  bool             `json:"loading_visible"`
	ErrorVisible    bool             `json:"error_visible"`
	ErrorText       string           `json:"error_text"`
	StatusError     bool             `json:"status_error"`
	CurrentPrice    string           `json:"current_price"`
	LastUpdate      string           `json:"last_update"`
	Chart           *model.ChartSpec `json:"chart,omitempty"`
	ChartGeneration int              `json:"chart_generation"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Board holds the dashboard elements in memory. It is the Surface and
// ChartRenderer every front end reads from, and it is safe for concurrent use.
type Board struct {
	mu sync.Mutex
	// notifyMu orders notifications; taken before mu, never while holding it.
	notifyMu sync.Mutex
	state    Snapshot
	live   int
	subs   map[int]func(Snapshot)
	nextID int
}

var (
	_ display.Surface       = (*Board)(nil)
	_ display.ChartRenderer = (*Board)(nil)
)

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{subs: make(map[int]func(Snapshot))}
}

// Snapshot returns a copy of the current element state.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// LiveCharts reports how many chart instances have not been destroyed.
func (b *Board) LiveCharts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function removes the subscription. fn must not block or write to
// the board. Notifications are delivered one at a time and each carries the
// state current when it is delivered, so the last one a subscriber sees
// matches Snapshot once writers go quiet.
func (b *Board) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *Board) SetLoadingVisible(visible bool) {
	b.apply(func(s *Snapshot) { s.LoadingVisible = visible })
}

func (b *Board) SetErrorVisible(visible bool) {
	b.apply(func(s *Snapshot) { s.ErrorVisible = visible })
}

func (b *Board) SetErrorText(text string) {
	b.apply(func(s *Snapshot) { s.ErrorText = text })
}

func (b *Board) SetStatusError(flagged bool) {
	b.apply(func(s *Snapshot) { s.StatusError = flagged })
}

func (b *Board) SetCurrentPrice(text string) {
	b.apply(func(s *Snapshot) { s.CurrentPrice = text })
}

func (b *Board) SetLastUpdate(text string) {
	b.apply(func(s *Snapshot) { s.LastUpdate = text })
}

// NewChart binds spec to the board's drawing surface.
func (b *Board) NewChart(spec *model.ChartSpec) (display.Chart, error) {
	var gen int
	b.apply(func(s *Snapshot) {
		s.ChartGeneration++
		s.Chart = spec
		gen = s.ChartGeneration
		b.live++
	})
	return &boardChart{board: b, generation: gen}, nil
}

func (b *Board) apply(change func(*Snapshot)) {
	b.mu.Lock()
	change(&b.state)
	b.state.UpdatedAt = time.Now()
	b.mu.Unlock()

	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	b.mu.Lock()
	snap := b.state
	subs := make([]func(Snapshot), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

type boardChart struct {
	board      *Board
	generation int
	destroyed  bool
}

func (c *boardChart) Destroy() error {
	c.board.mu.Lock()
	if c.destroyed {
		c.board.mu.Unlock()
		return ErrChartDestroyed
	}
	c.destroyed = true
	c.board.mu.Unlock()

	c.board.apply(func(s *Snapshot) {
		c.board.live--
		if s.ChartGeneration == c.generation {
			s.Chart = nil
		}
	})
	return nil
}
