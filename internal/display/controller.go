package display

import (
	"context"
	"log"
	"sync"
	"time"

	"OrbWatch/internal/collector"
	"OrbWatch/internal/model"
	"OrbWatch/internal/recorder"
)

const (
	opFetch  = "FETCH"
	opUpdate = "UPDATE"
)

// Controller fetches the price series, writes it to the surface and owns the
// single live chart instance.
type Controller struct {
	Fetcher  collector.Fetcher
	Surface  Surface
	Charts   ChartRenderer
	Recorder recorder.Recorder
	Location *time.Location

	chartMu sync.Mutex
	chart   Chart
}

// NewController creates a Controller. A nil recorder records nothing and a
// nil location means local time.
func NewController(f collector.Fetcher, s Surface, charts ChartRenderer, rec recorder.Recorder, loc *time.Location) *Controller {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		Fetcher:  f,
		Surface:  s,
		Charts:   charts,
		Recorder: rec,
		Location: loc,
	}
}

// FetchData loads the price series and displays it. Failures are logged and
// shown on the error banner; the returned error is for callers that want the
// outcome and must not be displayed again.
func (c *Controller) FetchData(ctx context.Context) error {
	c.showLoading()
	defer c.hideLoading()

	series, err := c.Fetcher.FetchSeries(ctx)
	if err != nil {
		log.Printf("[ERROR] fetching data: %v", err)
		c.fail(opFetch, MsgFetchFailed, err)
		return &FetchError{Cause: err}
	}
	if series == nil {
		series = &model.PriceSeries{}
	}

	c.UpdateDisplay(series)
	c.clearError()
	c.recordSeries(series)
	return nil
}

// UpdateData asks the backend to refresh its source data and, when it
// reports success, fetches the new series. The loading indicator stays up
// until the chained fetch has finished.
func (c *Controller) UpdateData(ctx context.Context) error {
	c.showLoading()
	defer c.hideLoading()

	result, err := c.Fetcher.TriggerUpdate(ctx)
	if err != nil {
		log.Printf("[ERROR] updating data: %v", err)
		c.fail(opUpdate, MsgUpdateFailed, err)
		return &UpdateError{Cause: err}
	}

	if !result.Succeeded() {
		log.Printf("[INFO] update returned status %q, not refetching", result.Status)
		return nil
	}
	return c.FetchData(ctx)
}

// UpdateDisplay writes the latest price and timestamp and redraws the chart.
// Empty sequences leave the text elements untouched.
func (c *Controller) UpdateDisplay(series *model.PriceSeries) {
	if price, ok := series.Latest(); ok {
		c.Surface.SetCurrentPrice(FormatPrice(price))
	}

	c.UpdateChart(series)

	if label, ok := series.LatestLabel(); ok {
		c.Surface.SetLastUpdate(FormatLastUpdate(label, c.Location))
	}
}

// UpdateChart replaces the live chart with one drawn from series.
func (c *Controller) UpdateChart(series *model.PriceSeries) {
	c.chartMu.Lock()
	defer c.chartMu.Unlock()

	c.destroyChartLocked()

	chart, err := c.Charts.NewChart(model.NewPriceChartSpec(series))
	if err != nil {
		log.Printf("[ERROR] create chart: %v", err)
		return
	}
	c.chart = chart
}

// Close destroys the live chart.
func (c *Controller) Close() error {
	c.chartMu.Lock()
	defer c.chartMu.Unlock()
	return c.destroyChartLocked()
}

func (c *Controller) destroyChartLocked() error {
	if c.chart == nil {
		return nil
	}
	err := c.chart.Destroy()
	if err != nil {
		log.Printf("[WARN] destroy chart: %v", err)
	}
	c.chart = nil
	return err
}

func (c *Controller) showLoading() {
	c.Surface.SetLoadingVisible(true)
	c.Surface.SetErrorVisible(false)
}

func (c *Controller) hideLoading() {
	c.Surface.SetLoadingVisible(false)
}

func (c *Controller) showError(message string) {
	c.Surface.SetErrorText(message)
	c.Surface.SetErrorVisible(true)
	c.Surface.SetStatusError(true)
}

func (c *Controller) clearError() {
	c.Surface.SetErrorVisible(false)
	c.Surface.SetStatusError(false)
}

func (c *Controller) fail(op, message string, cause error) {
	c.showError(message)
	if err := c.Recorder.RecordFailure(&recorder.FailureEvent{
		Operation: op,
		Message:   message,
		Cause:     cause.Error(),
	}); err != nil {
		log.Printf("[ERROR] record failure: %v", err)
	}
}

func (c *Controller) recordSeries(series *model.PriceSeries) {
	evt := &recorder.SeriesEvent{Operation: opFetch, Points: len(series.Prices)}
	evt.LatestPrice, _ = series.Latest()
	evt.LatestLabel, _ = series.LatestLabel()
	if err := c.Recorder.RecordSeries(evt); err != nil {
		log.Printf("[ERROR] record series: %v", err)
	}
}
