package main

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/go-plotkit/plotkit/pkg/chart"
	"github.com/go-plotkit/plotkit/pkg/config"
	"github.com/go-plotkit/plotkit/pkg/observe"
	"github.com/go-plotkit/plotkit/pkg/scale"
)

type simOptions struct {
	duration     time.Duration
	rate         float64
	collectEvery time.Duration
	configDir    string
	verbose      bool
}

func runSim(ctx context.Context, opts simOptions) error {
	cfg, err := config.LoadOptional(opts.configDir)
	if err != nil {
		return err
	}

	wave := newSampleBuffer()
	noise := newSampleBuffer()

	view := &simView{
		size: chart.Size{Width: 800, Height: 480},
	}
	view.series = []chart.Series{
		newSimSeries("wave", wave),
		newSimSeries("noise", noise),
	}

	model, err := chart.NewModelFromConfig(view, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := model.Dispose(); err != nil {
			log.Error("dispose failed", "err", err)
		}
	}()

	model.OnBoundPropertyChanged("series.wave.data", wave)
	model.OnBoundPropertyChanged("series.noise.data", noise)
	model.OnViewReady()

	ctx, cancel := context.WithTimeout(ctx, opts.duration)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		feed(ctx, opts.rate, wave, noise)
	}()

	collect := time.NewTicker(opts.collectEvery)
	defer collect.Stop()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			if err := model.CollectGarbage(); err != nil {
				log.Error("final collection failed", "err", err)
			}
			log.Info("simulation finished",
				"generation", model.Generation(),
				"ranges", len(model.Ranges()))
			return nil
		case <-collect.C:
			if err := model.CollectGarbage(); err != nil {
				log.Error("collection failed", "err", err)
				continue
			}
			r, ok := model.Range(scale.PlaneY, 0)
			log.Info("cycle",
				"generation", model.Generation(),
				"y-range-ok", ok,
				"y-min", r.Min,
				"y-max", r.Max)
		}
	}
}

// feed appends samples to both buffers at the configured rate. Every
// append notifies the buffer's listeners, which funnels into the model's
// debounced invalidation.
func feed(ctx context.Context, perSecond float64, wave, noise *sampleBuffer) {
	limiter := rate.NewLimiter(rate.Limit(perSecond), 1)
	t := 0.0
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		wave.Append(math.Sin(t) * 50)
		noise.Append(rand.Float64()*100 - 50)
		t += 0.05
	}
}

// sampleBuffer is a change-notifying series data source.
type sampleBuffer struct {
	observe.ChangeNotifier

	mu      sync.Mutex
	samples []float64
}

func newSampleBuffer() *sampleBuffer {
	return &sampleBuffer{}
}

// Append adds a sample and notifies listeners.
func (b *sampleBuffer) Append(v float64) {
	b.mu.Lock()
	b.samples = append(b.samples, v)
	b.mu.Unlock()
	b.NotifyListeners()
}

// Bounds returns the min and max sample, or NaN when empty.
func (b *sampleBuffer) Bounds() (min, max float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.samples) == 0 {
		return math.NaN(), math.NaN()
	}
	min, max = b.samples[0], b.samples[0]
	for _, v := range b.samples[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min, max
}

// Snapshot returns a copy of the buffered samples.
func (b *sampleBuffer) Snapshot() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]float64(nil), b.samples...)
}

// Len returns the number of buffered samples.
func (b *sampleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}
