// Package chart coordinates when a chart redraws, what numeric ranges its
// axes occupy, and which drawing resources survive each redraw.
//
// One [Model] exists per chart view. External events (data mutations, view
// resizes, the view-ready signal) funnel into [Model.RequestInvalidate],
// which debounces them into single update cycles. Each cycle mints a fresh
// generation token, rebuilds the range matrix, asks every visible series to
// fetch its data, and re-registers cycle survivors in the resource ledger.
// Hosts call [Model.CollectGarbage] between cycles to release whatever the
// latest cycle did not touch.
package chart

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-plotkit/plotkit/pkg/config"
	"github.com/go-plotkit/plotkit/pkg/errors"
	"github.com/go-plotkit/plotkit/pkg/observe"
	"github.com/go-plotkit/plotkit/pkg/palette"
	"github.com/go-plotkit/plotkit/pkg/resource"
	"github.com/go-plotkit/plotkit/pkg/scale"
	"github.com/go-plotkit/plotkit/pkg/schedule"
)

// Model is the update coordinator for a single chart view.
//
// All field mutation runs on the serialized update path; the state mutex
// only guards the handful of fields concurrent readers may touch (the
// generation token, the initialization gate, the cached draw area).
type Model struct {
	view View

	mu             sync.Mutex
	gen            uuid.UUID
	initialized    bool
	drawArea       Size
	ranges         scale.RangeMatrix
	disposed       bool
	pendingRestart bool

	// runMu serializes Update; no two cycles run concurrently.
	runMu sync.Mutex

	fixedDelay      time.Duration
	restartOnResize bool
	pal             *palette.Palette
	ledger          *resource.Ledger
	tracker         *observe.BindingTracker
	debouncer       *schedule.Debouncer
}

// NewModel creates a model for the given view with default settings.
func NewModel(view View) *Model {
	return newModel(view, config.DefaultDebounce, palette.Default(), false)
}

// NewModelFromConfig creates a model honoring a loaded configuration.
func NewModelFromConfig(view View, cfg *config.Config) (*Model, error) {
	pal, err := cfg.BuildPalette()
	if err != nil {
		return nil, err
	}
	return newModel(view, cfg.DebounceDelay(), pal, cfg.Engine.RestartOnResize), nil
}

func newModel(view View, fixedDelay time.Duration, pal *palette.Palette, restartOnResize bool) *Model {
	m := &Model{
		view:            view,
		fixedDelay:      fixedDelay,
		restartOnResize: restartOnResize,
		pal:             pal,
		ledger:          resource.NewLedger(),
		ranges:          scale.RangeMatrix{},
	}
	if view != nil {
		m.drawArea = view.DrawArea()
	}
	m.debouncer = schedule.NewDebouncer(fixedDelay, func() {
		m.Update(false)
	})
	m.tracker = observe.NewBindingTracker(m.RequestInvalidate)
	return m
}

// RequestInvalidate asks for a redraw. Requests landing while one is
// already pending coalesce into a single update cycle. Fire-and-forget.
func (m *Model) RequestInvalidate() {
	m.mu.Lock()
	disposed := m.disposed
	m.mu.Unlock()
	if disposed {
		return
	}
	m.debouncer.SetDelay(m.debounceDelay())
	m.debouncer.Trigger()
}

// debounceDelay picks the delay for the next cycle: the short fixed delay
// when the view has animations disabled, else the animation duration.
func (m *Model) debounceDelay() time.Duration {
	if m.view == nil || m.view.AnimationsDisabled() {
		return m.fixedDelay
	}
	if d := m.view.AnimationDuration(); d > 0 {
		return d
	}
	return m.fixedDelay
}

// Update runs one full update cycle. Cycles are serialized; a cycle
// arriving while another runs waits for it.
//
// A cycle on an uninitialized view does no work beyond minting its
// generation: it re-requests invalidation and returns, deferring until the
// view-ready signal arrives. When restart is true the entire resource
// ledger is disposed up front, before any series runs, which is the harder
// reset used when reinitializing from a structural view change.
//
// Update never collects: series may register subordinate resources after
// their own fetch, so hosts collect later via [Model.CollectGarbage],
// typically right before the next cycle begins.
func (m *Model) Update(restart bool) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	gen := uuid.New()
	m.gen = gen
	initialized := m.initialized
	if initialized {
		// A deferred cycle keeps its restart intent for the retry.
		restart = restart || m.pendingRestart
		m.pendingRestart = false
	}
	m.mu.Unlock()

	m.ledger.SetGeneration(gen)

	if !initialized {
		m.RequestInvalidate()
		return
	}

	if restart {
		if err := m.ledger.Clear(); err != nil {
			errors.Report(&errors.PlotError{
				Op:   "chart.Model.Update",
				Kind: errors.KindDispose,
				Err:  err,
			})
		}
	}

	area := m.view.DrawArea()
	ranges := scale.Accumulate(m.view.Axes())
	m.mu.Lock()
	m.drawArea = area
	m.ranges = ranges
	m.mu.Unlock()

	for _, s := range m.view.Series() {
		if !s.Visible() {
			continue
		}
		if err := s.FetchData(m); err != nil {
			errors.Report(&errors.PlotError{
				Op:   "chart.Model.Update",
				Kind: errors.KindFetch,
				Err:  err,
			})
		}
		m.ledger.Register(s)
	}
}

// CollectGarbage disposes every tracked resource the latest cycle did not
// touch. Best effort; all disposal failures come back as one bundle.
func (m *Model) CollectGarbage() error {
	return m.ledger.Collect()
}

// RegisterResource marks r as alive in the current update generation.
// Series call this for subordinate resources they allocate during fetch.
func (m *Model) RegisterResource(r resource.Disposable) resource.Handle {
	return m.ledger.Register(r)
}

// NextPaletteColor returns the next color in the shared process-wide
// palette rotation (see package palette).
func (m *Model) NextPaletteColor() palette.Color {
	return m.pal.Next()
}

// Generation returns the token of the current update cycle.
func (m *Model) Generation() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// Initialized reports whether the view-ready signal has arrived.
func (m *Model) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// DrawArea returns the draw-area size captured by the latest cycle.
func (m *Model) DrawArea() Size {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drawArea
}

// Ranges returns the range matrix computed by the latest cycle. The
// matrix is read-only from the caller's perspective.
func (m *Model) Ranges() scale.RangeMatrix {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ranges
}

// Range returns the latest cycle's range for one axis.
func (m *Model) Range(plane scale.Plane, axis int) (scale.AxisRange, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ranges.Range(plane, axis)
}

// ScaleToPixel projects value through r onto a pixel coordinate.
// An extent of zero or less falls back to the cached draw area, selecting
// width for the horizontal plane and height otherwise. Like
// [scale.ScaleToPixel] this performs no validation; callers skip scaling
// when r is empty or degenerate.
func (m *Model) ScaleToPixel(value float64, plane scale.Plane, r scale.AxisRange, extent float64) float64 {
	if extent <= 0 {
		extent = m.DrawArea().Extent(plane)
	}
	return scale.ScaleToPixel(value, r, extent)
}

// OnViewReady flips the initialization gate and requests the first real
// update cycle.
func (m *Model) OnViewReady() {
	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
	m.RequestInvalidate()
}

// OnResize records the new draw-area size and requests a redraw. With
// restart_on_resize configured, the redraw runs as a full-restart cycle.
func (m *Model) OnResize(size Size) {
	m.mu.Lock()
	m.drawArea = size
	if m.restartOnResize {
		m.pendingRestart = true
	}
	m.mu.Unlock()
	m.RequestInvalidate()
}

// OnFrequencyChanged installs a new debounce delay for future cycles.
// A pending cycle keeps the delay it was scheduled with.
func (m *Model) OnFrequencyChanged(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.fixedDelay = d
	m.mu.Unlock()
	m.debouncer.SetDelay(d)
}

// OnBoundPropertyChanged rewires change tracking when the host swaps which
// collection instance backs a named property. Mutations of the new
// instance invalidate the chart; the previous instance's subscription is
// torn down first.
func (m *Model) OnBoundPropertyChanged(name string, instance any) {
	m.tracker.Swap(name, instance)
}

// BoundProperty returns the instance last bound to name.
func (m *Model) BoundProperty(name string) (any, bool) {
	return m.tracker.Instance(name)
}

// Dispose shuts the model down: the pending debounce is cancelled, all
// binding subscriptions are removed, and every tracked resource is
// disposed. Dispose waits for an in-flight cycle to finish, so once it
// returns nothing can register behind the final clear and no bound
// collection can trigger another update. Dispose is idempotent; repeat
// calls return nil.
func (m *Model) Dispose() error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return nil
	}
	m.disposed = true
	m.mu.Unlock()

	m.debouncer.Close()
	m.tracker.Close()
	return m.ledger.Clear()
}
