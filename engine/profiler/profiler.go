package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
)

// Stats is one reporting interval's worth of frame and memory statistics.
type Stats struct {
	// Frames is the number of frames ticked during the interval.
	Frames int
	// FPS is the average frame rate over the interval.
	FPS float64
	// HeapMB is the live heap size.
	HeapMB float64
	// AllocRateMB is the heap allocation rate in MB per second.
	AllocRateMB float64
	// SysMB is the memory obtained from the OS.
	SysMB float64
	// GCCount is the cumulative number of collections.
	GCCount uint32
	// LastPause is the most recent GC pause.
	LastPause time.Duration
	// MaxPause is the longest GC pause during the interval.
	MaxPause time.Duration
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Emits one structured log record per interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now    func() time.Time
	logger *slog.Logger
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.logger == nil {
		p.logger = common.Logger()
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap. TotalAlloc: cumulative, tracks churn. Sys: process footprint.
	stats := Stats{
		Frames:      p.frameCount,
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
	}

	gcCount := p.memStats.NumGC
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		stats.LastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			stats.MaxPause = max(stats.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	p.logger.Info("frame stats",
		slog.Int("frames", stats.Frames),
		slog.Float64("fps", stats.FPS),
		slog.Float64("heap_mb", stats.HeapMB),
		slog.Float64("alloc_rate_mb", stats.AllocRateMB),
		slog.Uint64("gc", uint64(stats.GCCount)),
		slog.Duration("gc_last", stats.LastPause),
		slog.Duration("gc_max", stats.MaxPause),
		slog.Float64("sys_mb", stats.SysMB),
	)

	p.last = stats
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics of the most recent completed interval.
func (p *Profiler) Last() Stats {
	return p.last
}
