package display

import "OrbWatch/internal/model"

// Surface is the set of elements the controller writes to: a loading
// indicator, an error banner, a status indicator with an error flag and two
// text fields.
type Surface interface {
	SetLoadingVisible(visible bool)
	SetErrorVisible(visible bool)
	SetErrorText(text string)
	SetStatusError(flagged bool)
	SetCurrentPrice(text string)
	SetLastUpdate(text string)
}

// Chart is one rendered chart instance bound to the drawing surface.
// Destroy releases everything the instance holds; the surface does not do it
// on its own when a new instance is created.
type Chart interface {
	Destroy() error
}

// ChartRenderer creates chart instances on the drawing surface.
type ChartRenderer interface {
	NewChart(spec *model.ChartSpec) (Chart, error)
}
