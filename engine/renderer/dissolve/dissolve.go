package dissolve

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/surface"
)

// Renderer is the reference particle renderer. It breaks the transition image into a grid of
// particles and scatters them over the timeline.
type Renderer interface {
	renderer.Renderer

	// Active reports whether a transition is animating.
	//
	// Returns:
	//   - bool: true between PrepareResources and completion or Cancel
	Active() bool

	// Particles returns the number of particles in the current field.
	//
	// Returns:
	//   - int: the particle count, 0 when idle
	Particles() int
}

type dissolveRenderer struct {
	mu sync.Mutex

	backend   RendererBackend
	pool      worker.DynamicWorkerPool
	callbacks renderer.Callbacks
	timeline  *Timeline
	clock     Clock
	logger    *slog.Logger

	workers      int
	duration     time.Duration
	cellSize     float64
	maxParticles int
	spread       float64
	seed         uint64

	active    bool
	token     renderer.Token
	count     int
	fieldCell float64
}

var _ Renderer = &dissolveRenderer{}

// NewRenderer creates a dissolve renderer backed by WebGPU unless WithBackend says otherwise.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Renderer: the renderer, ready to be installed as a surface delegate
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &dissolveRenderer{
		duration:     DefaultDuration,
		cellSize:     defaultCellSize,
		maxParticles: defaultMaxParticles,
		spread:       1,
		workers:      defaultWorkers(),
		clock:        time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.backend == nil {
		r.backend = NewWGPURendererBackend("Dissolve")
	}
	if r.logger == nil {
		r.logger = common.Logger()
	}
	r.timeline = NewTimeline(r.duration)
	r.pool = worker.NewDynamicWorkerPool(r.workers, 256, time.Second)
	return r
}

func (r *dissolveRenderer) PrepareResources(dev *device.Device, t renderer.Transition) {
	tok := r.callbacks.Arm(t)

	field, err := BuildField(r.pool, t.Image, t.TargetFrame, FieldOptions{
		CellSize:     r.cellSize,
		MaxParticles: r.maxParticles,
		Seed:         r.seed,
	})
	if err != nil {
		r.logger.Warn("dissolve: nothing to animate", "error", err)
	}
	if err := r.backend.Upload(dev, field.Particles); err != nil {
		r.logger.Warn("dissolve: particle upload failed", "error", err)
		field.Particles = nil
	}

	r.mu.Lock()
	r.active = true
	r.token = tok
	r.count = len(field.Particles)
	r.fieldCell = field.CellSize
	r.timeline.Reset()
	r.mu.Unlock()

	r.logger.Debug("dissolve prepared",
		"particles", len(field.Particles),
		"cols", field.Cols,
		"rows", field.Rows,
		"cell", field.CellSize,
	)
}

func (r *dissolveRenderer) Draw(d surface.Drawable) {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		// Idle: keep the surface transparent.
		if err := r.backend.Render(d, Uniforms{}, 0); err != nil {
			r.logFrameError(err)
		}
		return
	}
	step := r.timeline.Advance(r.clock())
	tok, count, cell := r.token, r.count, r.fieldCell
	r.mu.Unlock()

	if err := r.backend.Render(d, uniformsFor(d.Frame(), step.Progress, cell, r.spread), count); err != nil {
		r.logFrameError(err)
		return
	}

	// An empty field has nothing left to show after its first frame.
	finished := step.Progress >= 1 || count == 0
	if finished {
		r.mu.Lock()
		current := r.token == tok
		if current {
			r.active = false
			r.count = 0
		}
		r.mu.Unlock()
		// A transition primed meanwhile owns the particle buffer now.
		if current {
			r.backend.ReleaseParticles()
		}
		r.logger.Debug("dissolve finished", "duration", r.timeline.Duration())
	}

	// Callbacks may re-enter PrepareResources, so state is settled before they run.
	r.callbacks.FirstFrame(tok)
	if finished {
		r.callbacks.Complete(tok)
	}
}

func (r *dissolveRenderer) Cancel() {
	r.callbacks.Disarm()

	r.mu.Lock()
	r.active = false
	r.count = 0
	r.timeline.Reset()
	r.mu.Unlock()

	r.backend.Release()
}

func (r *dissolveRenderer) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *dissolveRenderer) Particles() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func (r *dissolveRenderer) logFrameError(err error) {
	// A minimized window has no drawable; that is expected and frequent.
	if errors.Is(err, surface.ErrZeroSize) {
		r.logger.Debug("dissolve: frame skipped", "error", err)
		return
	}
	r.logger.Warn("dissolve: frame skipped", "error", err)
}
