package chart

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-plotkit/plotkit/pkg/config"
	"github.com/go-plotkit/plotkit/pkg/errors"
	"github.com/go-plotkit/plotkit/pkg/observe"
	"github.com/go-plotkit/plotkit/pkg/scale"
	"github.com/go-plotkit/plotkit/pkg/schedule"
)

// fakeAxis reports fixed bounds.
type fakeAxis struct {
	min, max float64
}

func (a fakeAxis) ReportedMin() float64 { return a.min }
func (a fakeAxis) ReportedMax() float64 { return a.max }

// fakeSeries records fetch and disposal calls.
type fakeSeries struct {
	visible  bool
	fetches  int
	fetchErr error
	disposed int
}

func (s *fakeSeries) Visible() bool { return s.visible }

func (s *fakeSeries) FetchData(m *Model) error {
	s.fetches++
	return s.fetchErr
}

func (s *fakeSeries) Dispose() error {
	s.disposed++
	return nil
}

// fakeView is a configurable stand-in for the platform surface.
type fakeView struct {
	animationsDisabled bool
	animationDuration  time.Duration
	drawArea           Size
	axes               map[scale.Plane][]scale.Axis
	series             []Series
}

func (v *fakeView) AnimationsDisabled() bool { return v.animationsDisabled }

func (v *fakeView) AnimationDuration() time.Duration { return v.animationDuration }

func (v *fakeView) DrawArea() Size { return v.drawArea }

func (v *fakeView) Axes() map[scale.Plane][]scale.Axis { return v.axes }

func (v *fakeView) Series() []Series { return v.series }

func newFakeView() *fakeView {
	return &fakeView{
		animationsDisabled: true,
		drawArea:           Size{Width: 200, Height: 100},
		axes: map[scale.Plane][]scale.Axis{
			scale.PlaneX: {fakeAxis{min: 0, max: 100}},
			scale.PlaneY: {fakeAxis{min: -50, max: 50}},
		},
	}
}

func withManualTimers(t *testing.T) *schedule.ManualTimers {
	t.Helper()
	timers := schedule.NewManualTimers()
	prev := schedule.SetTimerFactory(timers.New)
	t.Cleanup(func() { schedule.SetTimerFactory(prev) })
	return timers
}

// silentHandler records reported errors instead of logging them.
type silentHandler struct {
	reported []*errors.PlotError
}

func (h *silentHandler) HandleError(err *errors.PlotError) { h.reported = append(h.reported, err) }
func (h *silentHandler) HandlePanic(err *errors.PanicError) {}

func withSilentHandler(t *testing.T) *silentHandler {
	t.Helper()
	h := &silentHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func TestUpdateBeforeReadyDefers(t *testing.T) {
	timers := withManualTimers(t)

	view := newFakeView()
	s := &fakeSeries{visible: true}
	view.series = []Series{s}
	m := NewModel(view)

	m.Update(false)

	assert.Equal(t, 0, s.fetches, "no series fetch on an unready view")
	assert.Empty(t, m.Ranges(), "no range matrix change on an unready view")
	assert.Equal(t, 1, timers.Pending(), "a new invalidation is scheduled")
}

func TestUpdateFetchesVisibleSeries(t *testing.T) {
	withManualTimers(t)

	view := newFakeView()
	visible := &fakeSeries{visible: true}
	hidden := &fakeSeries{visible: false}
	view.series = []Series{visible, hidden}
	m := NewModel(view)
	m.OnViewReady()

	m.Update(false)

	assert.Equal(t, 1, visible.fetches)
	assert.Equal(t, 0, hidden.fetches)

	r, ok := m.Range(scale.PlaneY, 0)
	require.True(t, ok)
	assert.Equal(t, scale.AxisRange{Min: -50, Max: 50}, r)
}

func TestGenerationChangesEveryCycle(t *testing.T) {
	withManualTimers(t)

	m := NewModel(newFakeView())
	m.OnViewReady()

	m.Update(false)
	g1 := m.Generation()
	m.Update(false)
	g2 := m.Generation()

	assert.NotEqual(t, g1, g2)
}

func TestInvalidationCoalesces(t *testing.T) {
	timers := withManualTimers(t)

	view := newFakeView()
	s := &fakeSeries{visible: true}
	view.series = []Series{s}
	m := NewModel(view)
	m.OnViewReady()
	timers.Fire() // drain the ready-triggered cycle

	for i := 0; i < 10; i++ {
		m.RequestInvalidate()
	}
	assert.Equal(t, 1, timers.Pending(), "a burst of invalidations arms one timer")

	fetchesBefore := s.fetches
	timers.Fire()
	assert.Equal(t, fetchesBefore+1, s.fetches, "a burst produces exactly one update")
}

func TestGenerationalCollection(t *testing.T) {
	withManualTimers(t)

	view := newFakeView()
	s := &fakeSeries{visible: true}
	view.series = []Series{s}
	m := NewModel(view)
	m.OnViewReady()

	m.Update(false)
	stale := &fakeSeries{}
	m.RegisterResource(stale)

	// Next cycle re-registers the series but not the extra resource.
	m.Update(false)
	require.NoError(t, m.CollectGarbage())

	assert.Equal(t, 1, stale.disposed, "untouched resource is collected")
	assert.Equal(t, 0, s.disposed, "re-registered series survives")
}

func TestRestartClearsLedgerBeforeCollect(t *testing.T) {
	withManualTimers(t)

	view := newFakeView()
	s := &fakeSeries{visible: true}
	view.series = []Series{s}
	m := NewModel(view)
	m.OnViewReady()

	m.Update(false)
	orphan := &fakeSeries{}
	m.RegisterResource(orphan)

	m.Update(true)

	// Disposed by the restart itself, before any CollectGarbage call.
	assert.Equal(t, 1, orphan.disposed)
	assert.Equal(t, 1, s.disposed, "restart disposes survivors too before re-registering them")

	require.NoError(t, m.CollectGarbage())
	assert.Equal(t, 1, s.disposed, "series re-registered this cycle is not collected again")
}

func TestFetchErrorDoesNotAbortCycle(t *testing.T) {
	withManualTimers(t)
	h := withSilentHandler(t)

	view := newFakeView()
	failing := &fakeSeries{visible: true, fetchErr: fmt.Errorf("backend unavailable")}
	healthy := &fakeSeries{visible: true}
	view.series = []Series{failing, healthy}
	m := NewModel(view)
	m.OnViewReady()

	m.Update(false)

	assert.Equal(t, 1, healthy.fetches, "remaining series still fetch")
	require.Len(t, h.reported, 1)
	assert.Equal(t, errors.KindFetch, h.reported[0].Kind)

	// The failing series still holds its ledger slot.
	require.NoError(t, m.CollectGarbage())
	assert.Equal(t, 0, failing.disposed)
}

func TestBoundPropertyMutationInvalidates(t *testing.T) {
	timers := withManualTimers(t)

	m := NewModel(newFakeView())
	m.OnViewReady()
	timers.Fire()

	var list observe.ChangeNotifier
	m.OnBoundPropertyChanged("series.data", &list)

	list.NotifyListeners()
	assert.Equal(t, 1, timers.Pending(), "bound mutation schedules an update")
}

func TestBoundPropertySwapSafety(t *testing.T) {
	withManualTimers(t)

	m := NewModel(newFakeView())

	first := &observe.ChangeNotifier{}
	second := &observe.ChangeNotifier{}
	m.OnBoundPropertyChanged("series.data", first)
	m.OnBoundPropertyChanged("series.data", second)

	assert.Equal(t, 0, first.ListenerCount())
	assert.Equal(t, 1, second.ListenerCount())

	got, ok := m.BoundProperty("series.data")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestDebounceDelaySelection(t *testing.T) {
	timers := withManualTimers(t)

	view := newFakeView()
	view.animationsDisabled = false
	view.animationDuration = 300 * time.Millisecond
	m := NewModel(view)
	m.OnViewReady()
	assert.Equal(t, 300*time.Millisecond, timers.LastDelay(), "animation duration drives the delay")

	timers.Fire() // runs the first full cycle; nothing re-arms
	view.animationsDisabled = true
	m.RequestInvalidate()
	assert.Equal(t, 16*time.Millisecond, timers.LastDelay(), "fixed short delay with animations disabled")
}

func TestOnFrequencyChanged(t *testing.T) {
	timers := withManualTimers(t)

	m := NewModel(newFakeView())
	m.OnFrequencyChanged(100 * time.Millisecond)

	m.RequestInvalidate()
	assert.Equal(t, 100*time.Millisecond, timers.LastDelay())
}

func TestScaleToPixelExtentFallback(t *testing.T) {
	withManualTimers(t)

	m := NewModel(newFakeView()) // draw area 200x100
	r := scale.AxisRange{Min: 0, Max: 100}

	// Explicit extent wins.
	assert.Equal(t, 150.0, m.ScaleToPixel(25, scale.PlaneY, r, 200))

	// Zero extent falls back to width for X, height otherwise.
	assert.Equal(t, 150.0, m.ScaleToPixel(25, scale.PlaneX, r, 0))
	assert.Equal(t, 75.0, m.ScaleToPixel(25, scale.PlaneY, r, 0))
}

func TestAccumulateSubstitutesNaN(t *testing.T) {
	withManualTimers(t)

	view := newFakeView()
	view.axes = map[scale.Plane][]scale.Axis{
		scale.PlaneY: {fakeAxis{min: math.NaN(), max: math.NaN()}},
	}
	m := NewModel(view)
	m.OnViewReady()

	m.Update(false)

	r, ok := m.Range(scale.PlaneY, 0)
	require.True(t, ok)
	assert.True(t, r.IsEmpty())
}

func TestDisposeStopsInvalidation(t *testing.T) {
	timers := withManualTimers(t)

	view := newFakeView()
	s := &fakeSeries{visible: true}
	view.series = []Series{s}
	m := NewModel(view)
	m.OnViewReady()
	m.Update(false)
	timers.Fire()

	list := &observe.ChangeNotifier{}
	m.OnBoundPropertyChanged("series.data", list)

	require.NoError(t, m.Dispose())

	assert.Equal(t, 1, s.disposed, "disposal clears the ledger")
	assert.Equal(t, 0, list.ListenerCount(), "disposal removes subscriptions")

	list.NotifyListeners()
	m.RequestInvalidate()
	assert.Equal(t, 0, timers.Pending(), "no update can be scheduled after disposal")

	assert.NoError(t, m.Dispose(), "dispose is idempotent")
}

func TestUpdateAfterDisposeIsNoop(t *testing.T) {
	withManualTimers(t)

	view := newFakeView()
	s := &fakeSeries{visible: true}
	view.series = []Series{s}
	m := NewModel(view)
	m.OnViewReady()
	require.NoError(t, m.Dispose())

	m.Update(false)

	assert.Equal(t, 0, s.fetches)
}

func TestRestartOnResizeConfig(t *testing.T) {
	timers := withManualTimers(t)

	view := newFakeView()
	s := &fakeSeries{visible: true}
	view.series = []Series{s}

	cfg := &config.Config{Engine: config.EngineConfig{RestartOnResize: true}}
	m, err := NewModelFromConfig(view, cfg)
	require.NoError(t, err)
	m.OnViewReady()
	timers.Fire() // first cycle registers the series

	orphan := &fakeSeries{}
	m.RegisterResource(orphan)

	m.OnResize(Size{Width: 640, Height: 480})
	timers.Fire()

	// The resize-triggered cycle ran as a full restart: everything was
	// cleared up front, before any CollectGarbage call.
	assert.Equal(t, 1, orphan.disposed)
	assert.Equal(t, 1, s.disposed)

	require.NoError(t, m.CollectGarbage())
	assert.Equal(t, 1, s.disposed, "series re-registered by the restart cycle survives collection")
}

func TestResizeWithoutRestartKeepsLedger(t *testing.T) {
	timers := withManualTimers(t)

	view := newFakeView()
	s := &fakeSeries{visible: true}
	view.series = []Series{s}
	m := NewModel(view)
	m.OnViewReady()
	timers.Fire()

	m.OnResize(Size{Width: 640, Height: 480})
	timers.Fire()

	assert.Equal(t, 0, s.disposed, "a plain resize cycle never clears the ledger")
}

// blockingSeries parks its fetch until released, so tests can hold an
// update cycle open across goroutines.
type blockingSeries struct {
	fakeSeries
	started chan struct{}
	release chan struct{}
	orphan  *fakeSeries
}

func (s *blockingSeries) FetchData(m *Model) error {
	m.RegisterResource(s.orphan)
	close(s.started)
	<-s.release
	return nil
}

func TestDisposeWaitsForRunningCycle(t *testing.T) {
	withManualTimers(t)

	view := newFakeView()
	s := &blockingSeries{
		fakeSeries: fakeSeries{visible: true},
		started:    make(chan struct{}),
		release:    make(chan struct{}),
		orphan:     &fakeSeries{},
	}
	view.series = []Series{s}
	m := NewModel(view)
	m.OnViewReady()

	go m.Update(false)
	<-s.started

	done := make(chan error, 1)
	go func() { done <- m.Dispose() }()
	close(s.release)

	require.NoError(t, <-done)

	// Disposal ran after the cycle finished, so even resources registered
	// mid-cycle were cleared.
	assert.Equal(t, 1, s.disposed)
	assert.Equal(t, 1, s.orphan.disposed)
}

func TestOnResizeInvalidates(t *testing.T) {
	timers := withManualTimers(t)

	m := NewModel(newFakeView())
	m.OnResize(Size{Width: 640, Height: 480})

	assert.Equal(t, Size{Width: 640, Height: 480}, m.DrawArea())
	assert.Equal(t, 1, timers.Pending())
}
