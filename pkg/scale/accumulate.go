package scale

import "math"

// Axis reports the data bounds a view-side axis currently displays.
// Either bound may be NaN when the axis has nothing to report.
type Axis interface {
	ReportedMin() float64
	ReportedMax() float64
}

// RangeMatrix holds the per-plane, per-axis ranges computed for one
// update cycle. It is rebuilt from scratch every cycle.
type RangeMatrix map[Plane][]AxisRange

// Range returns the range for the given plane and axis index.
// The second result is false when the plane or index is absent.
func (m RangeMatrix) Range(plane Plane, axis int) (AxisRange, bool) {
	ranges, ok := m[plane]
	if !ok || axis < 0 || axis >= len(ranges) {
		return AxisRange{}, false
	}
	return ranges[axis], true
}

// Accumulate derives a fresh RangeMatrix from the view's axis descriptors.
//
// A NaN bound contributes the no-data identity instead: +Inf for the
// minimum, -Inf for the maximum. An axis reporting NaN on both sides
// therefore yields [EmptyRange], which series-side merging treats as
// "no contribution yet".
func Accumulate(axes map[Plane][]Axis) RangeMatrix {
	matrix := make(RangeMatrix, len(axes))
	for plane, list := range axes {
		ranges := make([]AxisRange, len(list))
		for i, axis := range list {
			min := axis.ReportedMin()
			if math.IsNaN(min) {
				min = math.Inf(1)
			}
			max := axis.ReportedMax()
			if math.IsNaN(max) {
				max = math.Inf(-1)
			}
			ranges[i] = AxisRange{Min: min, Max: max}
		}
		matrix[plane] = ranges
	}
	return matrix
}
