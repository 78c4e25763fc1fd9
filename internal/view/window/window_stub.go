//go:build !gui

package window

import (
	"context"
	"errors"
	"time"

	"OrbWatch/internal/view"
)

// ErrNotBuilt is returned when the binary was built without the gui tag.
var ErrNotBuilt = errors.New("window view not built in; rebuild with -tags gui")

func Run(_ context.Context, _ *view.Board, _ func(), _ *time.Location) error {
	return ErrNotBuilt
}
