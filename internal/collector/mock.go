package collector

import (
	"context"
	"math"
	"sync"
	"time"

	"OrbWatch/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	// Series is returned as-is when set; otherwise a week of samples around
	// BasePrice is generated on every call.
	Series    *model.PriceSeries
	BasePrice float64
	// Status is the update trigger answer; empty means success.
	Status string

	SeriesErr error
	UpdateErr error

	mu          sync.Mutex
	seriesCalls int
	updateCalls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(ctx context.Context) (*model.PriceSeries, error) {
	m.mu.Lock()
	m.seriesCalls++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.SeriesErr != nil {
		return nil, m.SeriesErr
	}
	if m.Series != nil {
		return m.Series, nil
	}
	return GenerateSampleSeries(m.BasePrice, time.Now()), nil
}

func (m *MockFetcher) TriggerUpdate(ctx context.Context) (*model.UpdateResult, error) {
	m.mu.Lock()
	m.updateCalls++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	status := m.Status
	if status == "" {
		status = model.StatusSuccess
	}
	return &model.UpdateResult{Status: status}, nil
}

// Calls reports how many times each endpoint was hit.
func (m *MockFetcher) Calls() (series, update int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seriesCalls, m.updateCalls
}

// GenerateSampleSeries produces seven days of two-hourly prices ending at now,
// drifting smoothly around basePrice.
func GenerateSampleSeries(basePrice float64, now time.Time) *model.PriceSeries {
	if basePrice <= 0 {
		basePrice = 180
	}
	const count = 7 * 12
	s := &model.PriceSeries{
		Prices: make([]float64, count),
		Labels: make([]string, count),
	}
	for i := 0; i < count; i++ {
		ts := now.Add(-time.Duration(count-1-i) * 2 * time.Hour)
		p := basePrice + 5*math.Sin(float64(i)/6) + float64(i)*0.05
		s.Prices[i] = math.Round(p*10) / 10
		s.Labels[i] = ts.Format("2006-01-02 15:04")
	}
	return s
}
