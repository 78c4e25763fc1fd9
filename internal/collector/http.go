package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"OrbWatch/internal/model"
)

const (
	DefaultDataPath   = "/api/data"
	DefaultUpdatePath = "/api/update"

	// errorBodyLimit caps how much of a failed response ends up in the error.
	errorBodyLimit = 512
)

// HTTPFetcher implements Fetcher against the OrbWatch JSON API.
type HTTPFetcher struct {
	BaseURL    string
	DataPath   string
	UpdatePath string
	Client     *http.Client
}

// NewHTTPFetcher creates a fetcher with optional proxy support.
// A zero timeout leaves requests unbounded.
func NewHTTPFetcher(baseURL, dataPath, updatePath, proxyURL string, timeout time.Duration) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if dataPath == "" {
		dataPath = DefaultDataPath
	}
	if updatePath == "" {
		updatePath = DefaultUpdatePath
	}
	return &HTTPFetcher{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		DataPath:   dataPath,
		UpdatePath: updatePath,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

func (f *HTTPFetcher) FetchSeries(ctx context.Context) (*model.PriceSeries, error) {
	var series model.PriceSeries
	if err := f.getJSON(ctx, "fetch data", f.DataPath, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

func (f *HTTPFetcher) TriggerUpdate(ctx context.Context) (*model.UpdateResult, error) {
	var result model.UpdateResult
	if err := f.getJSON(ctx, "trigger update", f.UpdatePath, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (f *HTTPFetcher) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Op: op, Cause: err}
	}
	return nil
}
