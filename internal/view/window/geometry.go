package window

import "image"

// point is a screen position in physical pixels.
type point struct {
	X, Y float32
}

// plot maps values into rect, oldest on the left. A flat series is drawn
// through the vertical middle.
func plot(values []float64, rect image.Rectangle) []point {
	if len(values) == 0 || rect.Empty() {
		return nil
	}
	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV

	pts := make([]point, len(values))
	for i, v := range values {
		x := float64(rect.Min.X)
		if len(values) > 1 {
			x += float64(i) / float64(len(values)-1) * float64(rect.Dx())
		} else {
			x += float64(rect.Dx()) / 2
		}
		y := float64(rect.Min.Y) + float64(rect.Dy())/2
		if span > 0 {
			y = float64(rect.Max.Y) - (v-minV)/span*float64(rect.Dy())
		}
		pts[i] = point{X: float32(x), Y: float32(y)}
	}
	return pts
}

// layout splits a screen into the header and chart areas and places the
// refresh button in the top right corner.
type layout struct {
	chart   image.Rectangle
	refresh image.Rectangle
}

func computeLayout(width, height int, scale float64, headerHeight float64) layout {
	pad := int(30 * scale)
	btnW, btnH := int(90*scale), int(28*scale)
	top := int(headerHeight) + pad
	if top > height-pad {
		top = height - pad
	}
	return layout{
		chart:   image.Rect(pad, top, width-pad, height-pad),
		refresh: image.Rect(width-pad-btnW, int(10*scale), width-pad, int(10*scale)+btnH),
	}
}

func (l layout) hitRefresh(x, y int) bool {
	return image.Pt(x, y).In(l.refresh)
}
