package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/config"
	"github.com/Carmen-Shannon/oxy-dissolve/engine"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/host"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/offscreen"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/renderer/dissolve"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/surface"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/window"
)

// imageFill is the share of the host bounds the image may cover.
const imageFill = 0.9

// runDissolve opens the host described by cfg and plays the transition until the window is
// closed, the process is interrupted, or (headless, not looping) the transition completes.
func runDissolve(cfg *config.Config) error {
	logger := cfg.Log.NewLogger(os.Stderr)
	common.SetLogger(logger)

	img, err := loadImage(cfg.Image)
	if err != nil {
		return err
	}
	logger.Info("image loaded", "source", imageName(cfg.Image), "width", img.Width, "height", img.Height)

	var updates <-chan common.Bitmap
	if cfg.Watch {
		iw, err := watchImage(cfg.Image, logger)
		if err != nil {
			return err
		}
		defer iw.Close()
		updates = iw.Updates()
	}

	r := dissolve.NewRenderer(rendererOptions(cfg.Dissolve, logger)...)

	var (
		win        window.Window
		backend    host.Backend
		bounds     common.Rect
		hostBounds func() common.Rect
	)
	if cfg.Render.Headless {
		backend = offscreen.NewHostBackend(offscreenOptions(cfg.Render)...)
		bounds = common.NewRect(0, 0, float64(cfg.Window.Width), float64(cfg.Window.Height))
	} else {
		win = window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithWidth(cfg.Window.Width),
			window.WithHeight(cfg.Window.Height),
			window.WithTransparent(cfg.Window.Transparent),
		)
		wb := window.NewHostBackend(win,
			window.WithForceFallbackAdapter(cfg.Render.ForceFallbackAdapter),
			window.WithPresentMode(presentMode(cfg.Render.PresentMode)),
			window.WithDisplayScale(cfg.Render.DisplayScale),
		)
		defer wb.Release()
		backend = wb
		// The window is the expanded surface; the host is its middle third.
		hostBounds = wb.HostBounds
		bounds = hostBounds()
	}

	h := host.NewSurfaceHost(backend, r, bounds, host.WithLogger(logger))
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithHost(h),
		engine.WithHostBounds(hostBounds),
		engine.WithProfiling(cfg.Render.Profile),
		engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
		engine.WithLogger(logger),
	)

	p := &player{
		host:     h,
		image:    img,
		updates:  updates,
		loop:     cfg.Dissolve.Loop,
		headless: cfg.Render.Headless,
		logger:   logger,
	}

	if win != nil {
		win.SetKeyDownCallback(func(keyCode uint32) {
			switch keyCode {
			case common.KeySpace, common.KeyR, common.KeyEnter:
				p.replay()
			}
		})
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	eng.SetFrameCallback(func(float32) {
		select {
		case sig := <-interrupt:
			logger.Info("shutting down", "signal", sig.String())
			eng.Quit()
			return
		default:
		}
		if p.tick() {
			eng.Quit()
		}
	})

	p.start()
	eng.Run()
	return nil
}

// player restarts transitions from the frame callback. Host calls stay on the draw-loop
// goroutine and never run inside a renderer callback.
type player struct {
	host     host.SurfaceHost
	image    common.Bitmap
	updates  <-chan common.Bitmap
	loop     bool
	headless bool
	logger   *slog.Logger

	runs     int
	restart  bool
	finished bool
}

func (p *player) start() {
	p.runs++
	run := p.runs
	target := targetFor(p.host.Bounds(), p.image, imageFill)
	p.host.Begin(p.image, target,
		func() {
			p.logger.Info("transition complete", "run", run)
			if p.loop {
				p.restart = true
			} else {
				p.finished = true
			}
		},
		func() {
			p.logger.Debug("first frame rendered", "run", run)
		},
	)
}

func (p *player) replay() {
	p.restart = true
}

// tick runs once per frame before the draw. It reports whether the engine should quit.
func (p *player) tick() bool {
	select {
	case img := <-p.updates:
		p.image = img
		p.restart = true
	default:
	}
	if p.restart {
		p.restart = false
		p.finished = false
		p.start()
		return false
	}
	return p.headless && p.finished
}

// targetFor centers the image in bounds, scaled down to cover at most fill of either axis
// and never scaled up beyond one point per pixel.
func targetFor(bounds common.Rect, img common.Bitmap, fill float64) common.Rect {
	if img.Width == 0 || img.Height == 0 {
		return common.Rect{Origin: bounds.Center()}
	}
	w, h := float64(img.Width), float64(img.Height)
	k := math.Min(bounds.Width()*fill/w, bounds.Height()*fill/h)
	k = math.Min(k, 1)
	c := bounds.Center()
	return common.NewRect(c.X-w*k/2, c.Y-h*k/2, w*k, h*k)
}

func loadImage(path string) (common.Bitmap, error) {
	if path == "" {
		return testCard(480, 300), nil
	}
	img, err := common.LoadBitmap(path)
	if err != nil {
		return common.Bitmap{}, fmt.Errorf("failed to load image: %w", err)
	}
	return img, nil
}

func imageName(path string) string {
	return common.Coalesce(path, "test card")
}

func rendererOptions(c config.DissolveConfig, logger *slog.Logger) []dissolve.RendererBuilderOption {
	options := []dissolve.RendererBuilderOption{
		dissolve.WithDuration(c.Duration),
		dissolve.WithCellSize(c.CellSize),
		dissolve.WithMaxParticles(c.MaxParticles),
		dissolve.WithSpread(c.Spread),
		dissolve.WithSeed(c.Seed),
		dissolve.WithLogger(logger),
	}
	if c.Workers > 0 {
		options = append(options, dissolve.WithWorkers(c.Workers))
	}
	return options
}

func offscreenOptions(c config.RenderConfig) []offscreen.HostBackendOption {
	options := []offscreen.HostBackendOption{
		offscreen.WithForceFallbackAdapter(c.ForceFallbackAdapter),
		offscreen.WithDefaultDisplayScale(1),
	}
	if c.DisplayScale > 0 {
		options = append(options, offscreen.WithDisplayScale(c.DisplayScale))
	}
	return options
}

func presentMode(mode string) surface.PresentMode {
	if mode == config.PresentModeUncapped {
		return surface.PresentModeUncapped
	}
	return surface.PresentModeVSync
}
