package collector

import (
	"context"

	"OrbWatch/internal/model"
)

// Fetcher defines the interface for talking to the price backend.
type Fetcher interface {
	// FetchSeries reads the price history shown on the dashboard.
	FetchSeries(ctx context.Context) (*model.PriceSeries, error)
	// TriggerUpdate asks the backend to refresh its source data.
	TriggerUpdate(ctx context.Context) (*model.UpdateResult, error)
	Name() string
}
