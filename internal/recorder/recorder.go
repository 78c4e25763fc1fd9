package recorder

// SeriesEvent describes a price series that reached the display.
type SeriesEvent struct {
	Operation   string // "FETCH"
	Points      int
	LatestPrice float64
	LatestLabel string
}

// FailureEvent describes an error that was shown to the user.
type FailureEvent struct {
	Operation string // "FETCH" or "UPDATE"
	Message   string // banner text
	Cause     string
}

// Recorder persists display history for later analysis.
type Recorder interface {
	RecordSeries(evt *SeriesEvent) error
	RecordFailure(evt *FailureEvent) error
	Close() error
}
