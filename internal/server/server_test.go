package server

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"OrbWatch/internal/model"
	"OrbWatch/internal/view"
)

type fakeRefresher struct {
	err   error
	calls int
}

func (f *fakeRefresher) UpdateData(context.Context) error {
	f.calls++
	return f.err
}

func newTestServer(t *testing.T, r Refresher) (*Server, *view.Board, *httptest.Server) {
	t.Helper()
	board := view.NewBoard()
	s := New("", board, r, time.UTC)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown(context.Background())
	})
	return s, board, ts
}

func TestHealth(t *testing.T) {
	_, _, ts := newTestServer(t, &fakeRefresher{})
	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Status      string `json:"status"`
		Connections int    `json:"connections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" || body.Connections != 0 {
		t.Errorf("unexpected health: %d %+v", resp.StatusCode, body)
	}
}

func TestState(t *testing.T) {
	_, board, ts := newTestServer(t, &fakeRefresher{})
	board.SetCurrentPrice("305,000 exalted")
	board.SetErrorText("Error loading price data. Please try again.")

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var snap view.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.CurrentPrice != "305,000 exalted" || snap.ErrorVisible {
		t.Errorf("unexpected state: %+v", snap)
	}
}

func TestRefresh(t *testing.T) {
	r := &fakeRefresher{}
	_, _, ts := newTestServer(t, r)

	resp, err := http.Post(ts.URL+"/api/refresh", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || r.calls != 1 {
		t.Errorf("status %d, calls %d", resp.StatusCode, r.calls)
	}

	r.err = errors.New("update: status 500")
	resp, err = http.Post(ts.URL+"/api/refresh", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusBadGateway || !strings.Contains(body["error"], "status 500") {
		t.Errorf("status %d, body %v", resp.StatusCode, body)
	}
}

func TestRefresh_WrongMethod(t *testing.T) {
	_, _, ts := newTestServer(t, &fakeRefresher{})
	resp, err := http.Get(ts.URL + "/api/refresh")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Error("GET refresh should not succeed")
	}
}

func TestChartPNG(t *testing.T) {
	_, board, ts := newTestServer(t, &fakeRefresher{})

	resp, err := http.Get(ts.URL + "/api/chart.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("no chart: status %d, want 404", resp.StatusCode)
	}

	board.NewChart(model.NewPriceChartSpec(&model.PriceSeries{
		Prices: []float64{100, 200, 305000},
		Labels: []string{"2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", "2024-01-03T00:00:00Z"},
	}))
	resp, err = http.Get(ts.URL + "/api/chart.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("status %d, type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if _, err := png.Decode(resp.Body); err != nil {
		t.Errorf("invalid png: %v", err)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, _, ts := newTestServer(t, &fakeRefresher{})
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/refresh", nil)
	req.Header.Set("Origin", "http://127.0.0.1:5173")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://127.0.0.1:5173" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestWebSocket_InitialAndLiveSnapshots(t *testing.T) {
	s, board, ts := newTestServer(t, &fakeRefresher{})
	board.SetCurrentPrice("1 exalted")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snap view.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if snap.CurrentPrice != "1 exalted" {
		t.Errorf("initial price = %q", snap.CurrentPrice)
	}
	if n := s.connections.Load(); n != 1 {
		t.Errorf("connections = %d, want 1", n)
	}

	board.SetCurrentPrice("2 exalted")
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if snap.CurrentPrice != "2 exalted" {
		t.Errorf("live price = %q", snap.CurrentPrice)
	}
}

func TestShutdownBeforeListen(t *testing.T) {
	s := New("127.0.0.1:0", view.NewBoard(), &fakeRefresher{}, time.UTC)
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe after Shutdown = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ListenAndServe started after Shutdown")
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}
