package calculator

import (
	"math"
	"testing"
)

func TestCalculateSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	got, err := CalculateSMA(prices, 3)
	if err != nil || got != 4 {
		t.Errorf("SMA(3) = %v, %v", got, err)
	}
	if _, err := CalculateSMA(prices, 6); err == nil {
		t.Error("expected error for short series")
	}
	if _, err := CalculateSMA(prices, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateRangeAndPosition(t *testing.T) {
	high, low, err := CalculateRange([]float64{180, 175.5, 190, 182})
	if err != nil || high != 190 || low != 175.5 {
		t.Errorf("range = %v %v %v", high, low, err)
	}
	if _, _, err := CalculateRange(nil); err == nil {
		t.Error("expected error for empty prices")
	}

	tests := []struct {
		current, high, low, want float64
	}{
		{150, 200, 100, 0.5},
		{250, 200, 100, 1},
		{50, 200, 100, 0},
		{7, 7, 7, 0.5},
	}
	for _, tt := range tests {
		got, err := CalculatePosition(tt.current, tt.high, tt.low)
		if err != nil || got != tt.want {
			t.Errorf("Position(%v,%v,%v) = %v, %v", tt.current, tt.high, tt.low, got, err)
		}
	}
	if _, err := CalculatePosition(1, 1, 2); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestSummarize(t *testing.T) {
	s, ok := Summarize([]float64{100, 200, 305000})
	if !ok {
		t.Fatal("expected summary")
	}
	if s.Latest != 305000 || s.High != 305000 || s.Low != 100 || s.Position != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if math.Abs(s.Average-101766.6667) > 0.001 {
		t.Errorf("average = %v", s.Average)
	}
	if s.ChangePct != 304900 {
		t.Errorf("change = %v", s.ChangePct)
	}

	if _, ok := Summarize(nil); ok {
		t.Error("empty series should not summarize")
	}
	if s, _ := Summarize([]float64{0, 5}); s.ChangePct != 0 {
		t.Errorf("change from zero = %v", s.ChangePct)
	}
}
