// Package scale maps data values onto pixel coordinates.
//
// A chart surface exposes one or more axes per plane (horizontal,
// vertical, and any additional planes a chart type defines). Each axis
// occupies an [AxisRange] in data space; [ScaleToPixel] projects a data
// value through that range onto a pixel extent.
//
// # Empty ranges
//
// An axis that has seen no finite data carries the inverted-infinity
// sentinel (Min=+Inf, Max=-Inf). The inversion is deliberate: any real
// value compares below +Inf and above -Inf, so series-side range merging
// can fold data points in with plain min/max comparisons and no missing-data
// special case. Callers must not feed an empty range to [ScaleToPixel];
// check [AxisRange.IsEmpty] first.
package scale

import (
	"fmt"
	"math"
)

// Plane identifies a coordinate plane of the chart surface.
type Plane int

const (
	// PlaneX is the horizontal plane; its pixel extent is the draw-area width.
	PlaneX Plane = iota
	// PlaneY is the vertical plane; its pixel extent is the draw-area height.
	PlaneY
)

// String returns a human-readable plane name.
func (p Plane) String() string {
	switch p {
	case PlaneX:
		return "x"
	case PlaneY:
		return "y"
	default:
		return fmt.Sprintf("Plane(%d)", int(p))
	}
}

// AxisRange is the data-space interval an axis currently occupies.
type AxisRange struct {
	Min float64
	Max float64
}

// EmptyRange returns the sentinel range for an axis with no data:
// Min=+Inf, Max=-Inf.
func EmptyRange() AxisRange {
	return AxisRange{Min: math.Inf(1), Max: math.Inf(-1)}
}

// IsEmpty reports whether the range is the no-data sentinel (or otherwise
// inverted). Empty ranges must not be scaled.
func (r AxisRange) IsEmpty() bool {
	return r.Min > r.Max
}

// IsDegenerate reports whether the range spans zero width. Scaling a
// degenerate range divides by zero.
func (r AxisRange) IsDegenerate() bool {
	return r.Min == r.Max
}

// Width returns Max - Min.
func (r AxisRange) Width() float64 {
	return r.Max - r.Min
}

// ScaleToPixel projects value through r onto a pixel extent.
//
// The projection is the two-point line through (r.Max, 0) and
// (r.Min, extent): the range minimum lands on the far pixel edge and the
// range maximum on pixel zero, so increasing values map to decreasing
// pixel coordinates.
//
// ScaleToPixel performs no validation. A degenerate range (Min == Max)
// divides by zero; callers guard with [AxisRange.IsEmpty] or
// [AxisRange.IsDegenerate] and skip scaling when there is no data.
func ScaleToPixel(value float64, r AxisRange, extent float64) float64 {
	return extent / (r.Max - r.Min) * (r.Max - value)
}
