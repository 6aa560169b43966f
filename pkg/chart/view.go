package chart

import (
	"time"

	"github.com/go-plotkit/plotkit/pkg/resource"
	"github.com/go-plotkit/plotkit/pkg/scale"
)

// Size is the draw area of a chart surface in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Extent returns the pixel extent for the given plane: width for the
// horizontal plane, height for any other.
func (s Size) Extent(plane scale.Plane) float64 {
	if plane == scale.PlaneX {
		return s.Width
	}
	return s.Height
}

// View is the capability set the model consumes from its host surface.
// The model holds the view only as a back-reference; the view's lifetime
// is controlled by its owner.
type View interface {
	// AnimationsDisabled reports that redraws should debounce on the
	// short fixed delay rather than the animation duration.
	AnimationsDisabled() bool

	// AnimationDuration is the view's configured animation length, used
	// as the debounce delay while animations are enabled.
	AnimationDuration() time.Duration

	// DrawArea is the current pixel size of the drawing surface.
	DrawArea() Size

	// Axes returns the per-plane axis descriptors the range matrix is
	// accumulated from.
	Axes() map[scale.Plane][]scale.Axis

	// Series returns all series attached to the view, visible or not.
	Series() []Series
}

// Series is a renderable data series. Each visible series fetches its
// data once per update cycle and lives in the resource ledger under the
// cycle's generation.
type Series interface {
	resource.Disposable

	// Visible reports whether the series takes part in update cycles.
	Visible() bool

	// FetchData computes the series' drawable data against the model's
	// current ranges and draw area.
	FetchData(m *Model) error
}
