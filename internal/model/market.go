package model

import (
	"strconv"
	"strings"
	"time"
)

// PriceSeries is the index-aligned price history served by the backend.
// Labels[i] is the timestamp of Prices[i], oldest first.
type PriceSeries struct {
	Prices []float64 `json:"prices"`
	Labels []string  `json:"labels"`
}

// Latest returns the most recent price, if any.
func (s *PriceSeries) Latest() (float64, bool) {
	if s == nil || len(s.Prices) == 0 {
		return 0, false
	}
	return s.Prices[len(s.Prices)-1], true
}

// LatestLabel returns the most recent timestamp label, if any.
func (s *PriceSeries) LatestLabel() (string, bool) {
	if s == nil || len(s.Labels) == 0 {
		return "", false
	}
	return s.Labels[len(s.Labels)-1], true
}

// UpdateResult is the backend's answer to an update trigger.
type UpdateResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// StatusSuccess is the only update status that chains a data fetch.
const StatusSuccess = "success"

// Succeeded reports whether the backend refreshed its source data.
func (r *UpdateResult) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// labelLayouts are tried in order; zone-less layouts use the caller's location.
var labelLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a series label. Accepted forms are ISO-8601 with or
// without a zone (T or space separator, optional seconds), a bare date, and
// all-digit epochs in seconds or milliseconds (>= 1e12).
func ParseTimestamp(label string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(label)
	if s == "" {
		return time.Time{}, false
	}
	if isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		if n >= 1e12 {
			return time.UnixMilli(n).In(loc), true
		}
		return time.Unix(n, 0).In(loc), true
	}
	for _, layout := range labelLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
