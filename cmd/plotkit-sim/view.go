package main

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-plotkit/plotkit/pkg/chart"
	"github.com/go-plotkit/plotkit/pkg/palette"
	"github.com/go-plotkit/plotkit/pkg/scale"
)

// simView is a headless stand-in for a platform chart surface.
type simView struct {
	size   chart.Size
	series []chart.Series
}

func (v *simView) AnimationsDisabled() bool { return true }

func (v *simView) AnimationDuration() time.Duration { return 0 }

func (v *simView) DrawArea() chart.Size { return v.size }

// Axes derives one axis per plane from the attached series' data bounds.
func (v *simView) Axes() map[scale.Plane][]scale.Axis {
	var count float64
	yMin, yMax := math.NaN(), math.NaN()
	for _, s := range v.series {
		sim, ok := s.(*simSeries)
		if !ok || !sim.Visible() {
			continue
		}
		count = math.Max(count, float64(sim.data.Len()))
		lo, hi := sim.data.Bounds()
		if !math.IsNaN(lo) {
			if math.IsNaN(yMin) || lo < yMin {
				yMin = lo
			}
		}
		if !math.IsNaN(hi) {
			if math.IsNaN(yMax) || hi > yMax {
				yMax = hi
			}
		}
	}

	xMax := math.NaN()
	if count > 0 {
		xMax = count - 1
	}
	xMin := math.NaN()
	if count > 0 {
		xMin = 0
	}
	return map[scale.Plane][]scale.Axis{
		scale.PlaneX: {simAxis{min: xMin, max: xMax}},
		scale.PlaneY: {simAxis{min: yMin, max: yMax}},
	}
}

func (v *simView) Series() []chart.Series { return v.series }

// simAxis reports fixed bounds; NaN means nothing to report yet.
type simAxis struct {
	min, max float64
}

func (a simAxis) ReportedMin() float64 { return a.min }

func (a simAxis) ReportedMax() float64 { return a.max }

// simSeries projects its sample buffer into pixel space on each fetch.
type simSeries struct {
	name string
	data *sampleBuffer

	mu       sync.Mutex
	visible  bool
	colored  bool
	color    palette.Color
	pixels   []float64
	fetches  int
	disposed bool
}

func newSimSeries(name string, data *sampleBuffer) *simSeries {
	return &simSeries{name: name, data: data, visible: true}
}

func (s *simSeries) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// FetchData scales every buffered sample into the view's vertical extent.
func (s *simSeries) FetchData(m *chart.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.colored {
		s.color = m.NextPaletteColor()
		s.colored = true
	}

	r, ok := m.Range(scale.PlaneY, 0)
	if !ok || r.IsEmpty() || r.IsDegenerate() {
		s.pixels = s.pixels[:0]
		return nil
	}

	samples := s.data.Snapshot()
	s.pixels = s.pixels[:0]
	for _, v := range samples {
		s.pixels = append(s.pixels, m.ScaleToPixel(v, scale.PlaneY, r, 0))
	}
	s.fetches++
	log.Debug("fetched", "series", s.name, "points", len(s.pixels), "fetches", s.fetches)
	return nil
}

func (s *simSeries) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.pixels = nil
	log.Debug("disposed", "series", s.name)
	return nil
}
