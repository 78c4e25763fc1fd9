package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"OrbWatch/internal/model"
	"OrbWatch/internal/view"
)

type fakeBotAPI struct {
	mu       sync.Mutex
	failures int
	sent     []map[string]string
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !strings.HasSuffix(r.URL.Path, "/bottoken/sendMessage") {
		http.NotFound(w, r)
		return
	}
	if f.failures > 0 {
		f.failures--
		http.Error(w, `{"ok":false}`, http.StatusTooManyRequests)
		return
	}
	var payload map[string]string
	json.NewDecoder(r.Body).Decode(&payload)
	f.sent = append(f.sent, payload)
	w.Write([]byte(`{"ok":true}`))
}

func (f *fakeBotAPI) messages() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.sent...)
}

func (f *fakeBotAPI) failNext(n int) {
	f.mu.Lock()
	f.failures = n
	f.mu.Unlock()
}

func newTestNotifier(api *fakeBotAPI) (*TelegramNotifier, func()) {
	srv := httptest.NewServer(api)
	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	tn.RetryBackoff = time.Millisecond
	return tn, srv.Close
}

func TestSend(t *testing.T) {
	api := &fakeBotAPI{}
	tn, closeFn := newTestNotifier(api)
	defer closeFn()

	if err := tn.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	sent := api.messages()
	if len(sent) != 1 || sent[0]["chat_id"] != "42" || sent[0]["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", sent)
	}
}

func TestSendWithRetry(t *testing.T) {
	api := &fakeBotAPI{failures: 2}
	tn, closeFn := newTestNotifier(api)
	defer closeFn()

	if err := tn.SendWithRetry(context.Background(), "hello", 3); err != nil {
		t.Fatalf("SendWithRetry: %v", err)
	}
	if n := len(api.messages()); n != 1 {
		t.Errorf("sent = %d", n)
	}

	api.failNext(10)
	err := tn.SendWithRetry(context.Background(), "hello", 1)
	if err == nil || !strings.Contains(err.Error(), "all 2 retries exhausted") {
		t.Errorf("expected exhausted error, got %v", err)
	}
}

func TestFormatStatus(t *testing.T) {
	s := view.Snapshot{
		CurrentPrice: "305,000 exalted",
		LastUpdate:   "Last Update: 01/03/2024, 12:00 AM",
		Chart:        model.NewPriceChartSpec(&model.PriceSeries{Prices: []float64{100, 200, 305000}}),
	}
	out := FormatStatus(s)
	for _, want := range []string{"305,000 exalted", "Last Update: 01/03/2024, 12:00 AM", "Window (3 points): +304900.0%", "High: 305,000 exalted", "Low: 100 exalted", "Average: 101,766.667 exalted"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "⚠️") {
		t.Error("warning shown without error")
	}

	s.ErrorVisible, s.ErrorText = true, "Error loading price data. Please try again."
	if !strings.Contains(FormatStatus(s), "Error loading price data") {
		t.Error("error banner missing from status")
	}
	if !strings.Contains(FormatStatus(view.Snapshot{}), "no data yet") {
		t.Error("empty status should say there is no data")
	}
}

func TestFormatAlert_Escapes(t *testing.T) {
	out := FormatAlert("Error loading price data. Please try again.", errors.New("fetch data: status 502, body: <html>"))
	if strings.Contains(out, "<html>") || !strings.Contains(out, "&lt;html&gt;") {
		t.Errorf("cause not escaped: %s", out)
	}
}
