package chart_test

import (
	"fmt"
	"time"

	"github.com/go-plotkit/plotkit/pkg/chart"
	"github.com/go-plotkit/plotkit/pkg/scale"
)

type exampleAxis struct{ min, max float64 }

func (a exampleAxis) ReportedMin() float64 { return a.min }
func (a exampleAxis) ReportedMax() float64 { return a.max }

type exampleSeries struct{}

func (exampleSeries) Visible() bool { return true }
func (exampleSeries) FetchData(*chart.Model) error { return nil }
func (exampleSeries) Dispose() error { return nil }

type exampleView struct{}

func (exampleView) AnimationsDisabled() bool { return true }
func (exampleView) AnimationDuration() time.Duration { return 0 }
func (exampleView) DrawArea() chart.Size { return chart.Size{Width: 200, Height: 100} }
func (exampleView) Series() []chart.Series { return []chart.Series{exampleSeries{}} }

func (exampleView) Axes() map[scale.Plane][]scale.Axis {
	return map[scale.Plane][]scale.Axis{
		scale.PlaneX: {exampleAxis{min: 0, max: 100}},
	}
}

// A host wires view events into the model, waits for the ready signal,
// and collects orphaned resources between cycles.
func Example() {
	m := chart.NewModel(exampleView{})
	defer m.Dispose()

	m.OnViewReady()
	m.Update(false)

	r, _ := m.Range(scale.PlaneX, 0)
	fmt.Println(m.ScaleToPixel(25, scale.PlaneX, r, 0))

	if err := m.CollectGarbage(); err != nil {
		fmt.Println("collect:", err)
	}
	// Output: 150
}
