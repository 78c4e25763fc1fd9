package window

import (
	"image"
	"testing"
)

func TestPlot(t *testing.T) {
	rect := image.Rect(0, 0, 100, 50)
	pts := plot([]float64{10, 20, 30}, rect)
	if len(pts) != 3 {
		t.Fatalf("points = %d", len(pts))
	}
	if pts[0] != (point{0, 50}) || pts[2] != (point{100, 0}) || pts[1] != (point{50, 25}) {
		t.Errorf("unexpected points: %v", pts)
	}
}

func TestPlot_FlatAndSingle(t *testing.T) {
	rect := image.Rect(10, 10, 110, 60)
	for _, pts := range [][]point{plot([]float64{5, 5}, rect), plot([]float64{5}, rect)} {
		for _, p := range pts {
			if p.Y != 35 {
				t.Errorf("flat series not centred: %v", pts)
			}
		}
	}
	if single := plot([]float64{5}, rect); single[0].X != 60 {
		t.Errorf("single point x = %v", single[0].X)
	}
	if plot(nil, rect) != nil || plot([]float64{1}, image.Rectangle{}) != nil {
		t.Error("expected no points")
	}
}

func TestLayout_RefreshHit(t *testing.T) {
	l := computeLayout(640, 480, 1, 80)
	if !l.hitRefresh(l.refresh.Min.X+1, l.refresh.Min.Y+1) {
		t.Error("click inside button missed")
	}
	if l.hitRefresh(5, 5) {
		t.Error("click outside button hit")
	}
	if l.chart.Min.Y != 110 || l.chart.Max.X != 610 {
		t.Errorf("chart rect = %v", l.chart)
	}
}
